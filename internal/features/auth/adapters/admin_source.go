package adapters

import (
	"context"
	"fmt"

	"wismo-tracker/internal/core/logger"
	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/auth/ports"

	"go.uber.org/zap"
)

// AdminFactory builds a client for a shop and access token.
type AdminFactory interface {
	ForShop(shop, accessToken string) shopify.Admin
}

// SessionAdminSource builds Admin handles from stored offline sessions,
// falling back to a statically configured single-shop token.
type SessionAdminSource struct {
	sessions    ports.SessionStore
	factory     AdminFactory
	staticShop  string
	staticToken string
}

// NewSessionAdminSource creates a SessionAdminSource. staticShop and staticToken may be empty.
func NewSessionAdminSource(sessions ports.SessionStore, factory AdminFactory, staticShop, staticToken string) *SessionAdminSource {
	return &SessionAdminSource{
		sessions:    sessions,
		factory:     factory,
		staticShop:  shopify.NormalizeShopDomain(staticShop),
		staticToken: staticToken,
	}
}

// AdminFor implements ports.AdminSource. A failing session store does not
// block the static token; its error is returned only when no handle can be built.
func (s *SessionAdminSource) AdminFor(ctx context.Context, shop string) (shopify.Admin, error) {
	var lookupErr error
	if s.sessions != nil {
		session, err := s.sessions.Get(ctx, shop)
		switch {
		case err != nil:
			lookupErr = fmt.Errorf("offline session lookup: %w", err)
		case session != nil && session.AccessToken != "":
			return s.factory.ForShop(shop, session.AccessToken), nil
		}
	}

	if s.staticToken != "" && s.staticShop == shop {
		if lookupErr != nil {
			logger.FromContext(ctx).Warn("Session store failed, using configured token", zap.String("shop", shop), zap.Error(lookupErr))
		}
		return s.factory.ForShop(shop, s.staticToken), nil
	}

	return nil, lookupErr
}
