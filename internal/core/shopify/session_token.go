package shopify

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSessionToken is returned for session tokens that fail validation.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims are the claims of an embedded app session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	// Dest is the shop URL, e.g. https://demo.myshopify.com.
	Dest string `json:"dest"`
	// Sid is the session id.
	Sid string `json:"sid,omitempty"`
}

// SessionTokenValidator checks session tokens issued by the admin to the embedded app.
// Tokens are HS256-signed with the app secret and addressed to the app's API key.
type SessionTokenValidator struct {
	APIKey string
	Secret string
	// Leeway tolerates clock skew on exp and nbf.
	Leeway time.Duration
}

// Validate returns the shop the token was issued for.
func (v SessionTokenValidator) Validate(tokenStr string) (string, error) {
	if v.Secret == "" {
		return "", fmt.Errorf("%w: validator uninitialized", ErrInvalidSessionToken)
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(v.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.APIKey),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.Leeway),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidSessionToken
	}

	dest, err := url.Parse(claims.Dest)
	if err != nil || !ValidShopDomain(dest.Host) {
		return "", fmt.Errorf("%w: bad dest %q", ErrInvalidSessionToken, claims.Dest)
	}
	return NormalizeShopDomain(dest.Host), nil
}
