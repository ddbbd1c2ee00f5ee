package service

import (
	"context"

	"wismo-tracker/internal/core/logger"
	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/auth/domain"
	"wismo-tracker/internal/features/auth/ports"

	"go.uber.org/zap"
)

// AppProxySignature accepts requests carrying a valid app proxy signature.
// When credentials for the shop exist, the caller leaves with its Admin handle.
type AppProxySignature struct {
	Verifier ports.SignatureVerifier
	Admins   ports.AdminSource
}

func (AppProxySignature) Name() string { return "app_proxy_signature" }

func (s AppProxySignature) Identify(ctx context.Context, req domain.ProxyRequest) (*domain.Caller, bool) {
	if s.Verifier == nil || req.Query == nil {
		return nil, false
	}
	shop, ok := s.Verifier.Verify(req.Query)
	if !ok {
		return nil, false
	}

	caller := &domain.Caller{Shop: shop, Verified: true}
	if s.Admins != nil {
		admin, err := s.Admins.AdminFor(ctx, shop)
		if err != nil {
			logger.FromContext(ctx).Warn("Signed request without usable session", zap.String("shop", shop), zap.Error(err))
		}
		caller.Admin = admin
	}
	return caller, true
}

// DevShopParam trusts a well-formed shop query parameter. Development only.
type DevShopParam struct{}

func (DevShopParam) Name() string { return "dev_shop_param" }

func (DevShopParam) Identify(ctx context.Context, req domain.ProxyRequest) (*domain.Caller, bool) {
	shop := shopify.NormalizeShopDomain(req.Query.Get("shop"))
	if !shopify.ValidShopDomain(shop) {
		return nil, false
	}
	logger.FromContext(ctx).Warn("Using unverified shop parameter", zap.String("shop", shop))
	return &domain.Caller{Shop: shop}, true
}

// OfflineSession builds a handle from the shop's stored credentials.
type OfflineSession struct {
	Admins ports.AdminSource
}

func (OfflineSession) Name() string { return "offline_session" }

func (s OfflineSession) Handle(ctx context.Context, caller *domain.Caller) (shopify.Admin, bool) {
	if s.Admins == nil {
		return nil, false
	}
	admin, err := s.Admins.AdminFor(ctx, caller.Shop)
	if err != nil {
		logger.FromContext(ctx).Warn("Offline session unavailable", zap.String("shop", caller.Shop), zap.Error(err))
		return nil, false
	}
	return admin, admin != nil
}

// DevNoopAdmin substitutes an Admin that returns empty results. Development only.
type DevNoopAdmin struct{}

func (DevNoopAdmin) Name() string { return "dev_noop_admin" }

func (DevNoopAdmin) Handle(ctx context.Context, caller *domain.Caller) (shopify.Admin, bool) {
	logger.FromContext(ctx).Warn("Using no-op admin", zap.String("shop", caller.Shop))
	return shopify.NoopAdmin{}, true
}
