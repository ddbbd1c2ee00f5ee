package shopify

import (
	"regexp"
	"strings"
)

var shopDomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// NormalizeShopDomain lower-cases a shop domain and strips scheme and trailing slashes.
func NormalizeShopDomain(shop string) string {
	shop = strings.ToLower(strings.TrimSpace(shop))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	return strings.TrimSuffix(shop, "/")
}

// ValidShopDomain reports whether shop looks like "<name>.myshopify.com".
func ValidShopDomain(shop string) bool {
	return shopDomainPattern.MatchString(NormalizeShopDomain(shop))
}
