package ports

import (
	"context"
	"net/url"

	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/auth/domain"
)

// SessionStore looks up offline sessions by shop.
type SessionStore interface {
	// Get returns nil, nil when the shop has no stored session.
	Get(ctx context.Context, shop string) (*domain.Session, error)
}

// AdminSource builds a shop-scoped Admin API handle.
type AdminSource interface {
	// AdminFor returns nil, nil when no credentials are known for shop.
	AdminFor(ctx context.Context, shop string) (shopify.Admin, error)
}

// SignatureVerifier checks app proxy query signatures.
type SignatureVerifier interface {
	Verify(query url.Values) (shop string, ok bool)
}
