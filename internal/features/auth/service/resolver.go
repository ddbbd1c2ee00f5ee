package service

import (
	"context"

	"wismo-tracker/internal/core/logger"
	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/auth/domain"
	"wismo-tracker/internal/features/auth/ports"

	"go.uber.org/zap"
)

// IdentityStrategy tries to establish the shop of a request.
type IdentityStrategy interface {
	Name() string
	Identify(ctx context.Context, req domain.ProxyRequest) (*domain.Caller, bool)
}

// HandleStrategy tries to provide an Admin handle for an identified caller.
type HandleStrategy interface {
	Name() string
	Handle(ctx context.Context, caller *domain.Caller) (shopify.Admin, bool)
}

// Resolver runs identity strategies, then handle strategies, stopping at the first success of each.
type Resolver struct {
	identity []IdentityStrategy
	handles  []HandleStrategy
}

// NewResolver wires the standard strategy order for mode.
func NewResolver(mode domain.Mode, verifier ports.SignatureVerifier, admins ports.AdminSource) *Resolver {
	identity := []IdentityStrategy{AppProxySignature{Verifier: verifier, Admins: admins}}
	handles := []HandleStrategy{OfflineSession{Admins: admins}}

	if mode.IsDevelopment() {
		identity = append(identity, DevShopParam{})
		handles = append(handles, DevNoopAdmin{})
	}

	return NewResolverWith(identity, handles)
}

// NewResolverWith builds a Resolver from explicit strategy lists.
func NewResolverWith(identity []IdentityStrategy, handles []HandleStrategy) *Resolver {
	return &Resolver{identity: identity, handles: handles}
}

// Resolve returns the caller of req, ErrUnauthorized when no shop is found,
// or ErrServiceUnavailable when no Admin handle can be built.
func (r *Resolver) Resolve(ctx context.Context, req domain.ProxyRequest) (*domain.Caller, error) {
	log := logger.FromContext(ctx)

	var caller *domain.Caller
	for _, s := range r.identity {
		if c, ok := s.Identify(ctx, req); ok {
			log.Debug("Caller identified", zap.String("strategy", s.Name()), zap.String("shop", c.Shop), zap.Bool("verified", c.Verified))
			caller = c
			break
		}
		log.Debug("Identity strategy skipped", zap.String("strategy", s.Name()))
	}

	if caller == nil || caller.Shop == "" {
		log.Warn("Request rejected: no shop could be established")
		return nil, domain.ErrUnauthorized
	}

	if caller.Admin != nil {
		return caller, nil
	}

	for _, s := range r.handles {
		if admin, ok := s.Handle(ctx, caller); ok {
			log.Debug("Admin handle obtained", zap.String("strategy", s.Name()), zap.String("shop", caller.Shop))
			caller.Admin = admin
			return caller, nil
		}
		log.Debug("Handle strategy skipped", zap.String("strategy", s.Name()), zap.String("shop", caller.Shop))
	}

	log.Error("No admin handle available", zap.String("shop", caller.Shop))
	return nil, domain.ErrServiceUnavailable
}
