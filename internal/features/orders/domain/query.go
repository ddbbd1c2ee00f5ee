package domain

import (
	"errors"
	"strings"
)

// ErrMissingParams is returned when the order number or email is blank.
var ErrMissingParams = errors.New("missing order number or email")

// LookupRequest is the raw customer input of a tracking lookup.
type LookupRequest struct {
	OrderIdentifier string
	Email           string
}

// Validate checks that both fields are non-empty after trimming.
func (r LookupRequest) Validate() error {
	if strings.TrimSpace(r.OrderIdentifier) == "" || strings.TrimSpace(r.Email) == "" {
		return ErrMissingParams
	}
	return nil
}

// NormalizedQuery is the canonical form sent to the commerce platform.
type NormalizedQuery struct {
	// OrderName is "#"-prefixed when the input was purely numeric.
	OrderName string
	// Email is trimmed and lower-cased.
	Email string
}

// Normalize canonicalizes an order identifier and email.
func Normalize(orderIdentifier, email string) NormalizedQuery {
	name := strings.TrimSpace(orderIdentifier)
	if isDigits(name) {
		name = "#" + name
	}
	return NormalizedQuery{
		OrderName: name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
	}
}

// Normalized returns the canonical query for r.
func (r LookupRequest) Normalized() NormalizedQuery {
	return Normalize(r.OrderIdentifier, r.Email)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
