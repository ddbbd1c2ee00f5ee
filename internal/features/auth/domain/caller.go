package domain

import (
	"errors"
	"net/url"
	"strings"

	"wismo-tracker/internal/core/shopify"
)

var (
	// ErrUnauthorized is returned when no shop could be established for the request.
	ErrUnauthorized = errors.New("unauthorized caller")
	// ErrServiceUnavailable is returned when a shop is known but no Admin API handle can be built.
	ErrServiceUnavailable = errors.New("admin api unavailable")
)

// Mode selects how much trust the resolver extends to unsigned requests.
type Mode string

const (
	// ModeProduction only accepts signed app proxy requests.
	ModeProduction Mode = "production"
	// ModeDevelopment also accepts a plain shop parameter and falls back to a no-op admin.
	ModeDevelopment Mode = "development"
)

// ModeFor maps an APP_ENV value to a Mode. Anything but "development" is production.
func ModeFor(environment string) Mode {
	if strings.EqualFold(strings.TrimSpace(environment), string(ModeDevelopment)) {
		return ModeDevelopment
	}
	return ModeProduction
}

// IsDevelopment reports whether relaxed fallbacks are allowed.
func (m Mode) IsDevelopment() bool {
	return m == ModeDevelopment
}

// ProxyRequest is the part of an inbound request the resolver looks at.
type ProxyRequest struct {
	Query url.Values
}

// Caller is the identity and data-access capability of one request. Never persisted.
type Caller struct {
	// Shop is the shop domain the request belongs to.
	Shop string
	// Verified is true when the shop came from a valid app proxy signature.
	Verified bool
	// Admin queries the shop's commerce data. Nil until a handle strategy succeeds.
	Admin shopify.Admin
}

// Session is an offline access grant stored at install time.
type Session struct {
	Shop        string `json:"shop"`
	AccessToken string `json:"accessToken"`
	Scope       string `json:"scope,omitempty"`
}
