package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ProxyVerifier validates the signature Shopify appends to app proxy requests.
type ProxyVerifier struct {
	// Secret is the app's API secret.
	Secret string
	// MaxAge rejects requests whose timestamp is older than this. Zero disables the check.
	MaxAge time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Verify checks query and returns the signed shop domain.
func (v ProxyVerifier) Verify(query url.Values) (string, bool) {
	provided := query.Get("signature")
	shop := NormalizeShopDomain(query.Get("shop"))
	if v.Secret == "" || provided == "" || !ValidShopDomain(shop) {
		return "", false
	}

	expected := ProxySignature(query, v.Secret)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(provided))) {
		return "", false
	}

	if v.MaxAge > 0 {
		ts, err := strconv.ParseInt(query.Get("timestamp"), 10, 64)
		if err != nil {
			return "", false
		}
		now := time.Now
		if v.Now != nil {
			now = v.Now
		}
		if now().Sub(time.Unix(ts, 0)) > v.MaxAge {
			return "", false
		}
	}

	return shop, true
}

// ProxySignature computes the app proxy signature: hex HMAC-SHA256 over the
// "key=value" pairs (repeated values joined by commas), sorted as whole
// strings and concatenated with no separator.
func ProxySignature(query url.Values, secret string) string {
	pairs := make([]string, 0, len(query))
	for k, values := range query {
		if k == "signature" {
			continue
		}
		pairs = append(pairs, k+"="+strings.Join(values, ","))
	}
	// "id2=" sorts before "id=", so the pairs are ordered, not the keys.
	sort.Strings(pairs)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "")))
	return hex.EncodeToString(mac.Sum(nil))
}
