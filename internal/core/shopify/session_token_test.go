package shopify

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signSessionToken(t *testing.T, secret string, claims SessionClaims, method jwt.SigningMethod) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() SessionClaims {
	now := time.Now()
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://demo.myshopify.com/admin",
			Audience:  jwt.ClaimStrings{"api-key"},
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		},
		Dest: "https://demo.myshopify.com",
		Sid:  "f4a1",
	}
}

func TestSessionTokenValidator(t *testing.T) {
	v := SessionTokenValidator{APIKey: "api-key", Secret: "hush", Leeway: 5 * time.Second}

	t.Run("Valid", func(t *testing.T) {
		shop, err := v.Validate(signSessionToken(t, "hush", validClaims(), jwt.SigningMethodHS256))
		require.NoError(t, err)
		assert.Equal(t, "demo.myshopify.com", shop)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := v.Validate(signSessionToken(t, "other", validClaims(), jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("WrongAudience", func(t *testing.T) {
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"someone-else"}
		_, err := v.Validate(signSessionToken(t, "hush", claims, jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := v.Validate(signSessionToken(t, "hush", claims, jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("MissingExpiry", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = nil
		_, err := v.Validate(signSessionToken(t, "hush", claims, jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("OtherAlgorithm", func(t *testing.T) {
		_, err := v.Validate(signSessionToken(t, "hush", validClaims(), jwt.SigningMethodHS512))
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("ForeignDest", func(t *testing.T) {
		claims := validClaims()
		claims.Dest = "https://evil.example.com"
		_, err := v.Validate(signSessionToken(t, "hush", claims, jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := v.Validate("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("Uninitialized", func(t *testing.T) {
		_, err := SessionTokenValidator{}.Validate("x")
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})
}
