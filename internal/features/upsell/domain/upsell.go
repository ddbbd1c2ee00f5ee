package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTitle is shown when a shop has not set its own heading.
	DefaultTitle = "You might also like"
	// MaxProducts bounds the recommendations shown next to a tracking result.
	MaxProducts = 4
	// PriceFallback is displayed when a product has no price data.
	PriceFallback = "Check Price"

	collectionGIDPrefix = "gid://shopify/Collection/"
	maxTitleLength      = 120
)

var (
	// ErrInvalidCollectionID is returned for references that are neither a numeric id nor a gid.
	ErrInvalidCollectionID = errors.New("invalid collection id")
	// ErrInvalidConfig is returned when settings fail validation on write.
	ErrInvalidConfig = errors.New("invalid upsell settings")
)

// Config is the per-shop upsell configuration. Writes are last-write-wins.
type Config struct {
	// Shop is the shop domain and the unique key.
	Shop string `json:"shop"`
	// IsEnabled turns recommendations on for the shop.
	IsEnabled bool `json:"is_enabled"`
	// CollectionID references the source collection; empty means none.
	CollectionID string `json:"upsell_collection_id"`
	// Title is the heading shown above the products.
	Title string `json:"upsell_title"`
	// UpdatedAt is stamped on every save.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConfig validates and builds a Config for shop.
func NewConfig(shop string, enabled bool, collectionID, title string) (*Config, error) {
	collectionID = strings.TrimSpace(collectionID)
	title = strings.TrimSpace(title)

	if collectionID != "" {
		if _, err := NormalizeCollectionID(collectionID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if len(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: title longer than %d characters", ErrInvalidConfig, maxTitleLength)
	}

	return &Config{
		Shop:         shop,
		IsEnabled:    enabled,
		CollectionID: collectionID,
		Title:        title,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// DisplayTitle returns Title or DefaultTitle when blank.
func (c *Config) DisplayTitle() string {
	if strings.TrimSpace(c.Title) == "" {
		return DefaultTitle
	}
	return c.Title
}

// Active reports whether the config asks for recommendations.
func (c *Config) Active() bool {
	return c != nil && c.IsEnabled && strings.TrimSpace(c.CollectionID) != ""
}

// NormalizeCollectionID turns a bare numeric id into a collection gid.
// Values already starting with "gid://" are returned unchanged.
func NormalizeCollectionID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "gid://") {
		return ref, nil
	}
	if ref == "" {
		return "", ErrInvalidCollectionID
	}
	for _, r := range ref {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCollectionID, ref)
		}
	}
	return collectionGIDPrefix + ref, nil
}

// Product is a display-ready recommendation.
type Product struct {
	Title string `json:"title"`
	// Price is "<amount> <currency>" or PriceFallback.
	Price string `json:"price"`
	// Image is the featured image URL or "".
	Image string `json:"image"`
	// URL is the storefront URL or /products/<handle>.
	URL string `json:"url"`
}

// NewProduct derives display fields from raw catalog values.
func NewProduct(title, handle, amount, currencyCode, imageURL, storefrontURL string) Product {
	url := storefrontURL
	if url == "" {
		url = "/products/" + handle
	}
	return Product{
		Title: title,
		Price: FormatPrice(amount, currencyCode),
		Image: imageURL,
		URL:   url,
	}
}

// FormatPrice renders an amount and currency, e.g. "19.99 USD".
func FormatPrice(amount, currencyCode string) string {
	if strings.TrimSpace(amount) == "" {
		return PriceFallback
	}
	return strings.TrimSpace(amount + " " + currencyCode)
}

// Payload is the upsell block attached to a tracking result.
type Payload struct {
	Title        string    `json:"title"`
	CollectionID string    `json:"collectionId"`
	Products     []Product `json:"products"`
}
