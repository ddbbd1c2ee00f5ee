package service

import (
	"context"
	"fmt"

	"wismo-tracker/internal/core/logger"
	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/upsell/domain"
	"wismo-tracker/internal/features/upsell/ports"

	"go.uber.org/zap"
)

// UpsellService builds recommendation blocks and manages per-shop settings.
type UpsellService struct {
	repo     ports.ConfigRepository
	products ports.ProductProvider
}

// NewUpsellService creates a new UpsellService.
func NewUpsellService(repo ports.ConfigRepository, products ports.ProductProvider) *UpsellService {
	return &UpsellService{
		repo:     repo,
		products: products,
	}
}

// Aggregate returns the upsell block for shop, or nil when there is nothing to show.
// It never fails: storage and catalog errors are logged and yield nil.
func (s *UpsellService) Aggregate(ctx context.Context, admin shopify.Admin, shop string) *domain.Payload {
	log := logger.FromContext(ctx).With(zap.String("shop", shop))

	cfg, err := s.repo.Get(ctx, shop)
	if err != nil {
		log.Warn("Upsell settings unavailable", zap.Error(err))
		return nil
	}
	if !cfg.Active() {
		return nil
	}

	collectionID, err := domain.NormalizeCollectionID(cfg.CollectionID)
	if err != nil {
		log.Warn("Upsell collection reference rejected", zap.Error(err))
		return nil
	}

	products, err := s.products.CollectionProducts(ctx, admin, collectionID, domain.MaxProducts)
	if err != nil {
		if ctx.Err() == nil {
			log.Error("Upsell products fetch failed", zap.String("collection_id", collectionID), zap.Error(err))
		}
		return nil
	}
	if len(products) == 0 {
		return nil
	}
	if len(products) > domain.MaxProducts {
		products = products[:domain.MaxProducts]
	}

	return &domain.Payload{
		Title:        cfg.DisplayTitle(),
		CollectionID: collectionID,
		Products:     products,
	}
}

// GetConfig returns the stored settings, or a disabled default when none exist.
func (s *UpsellService) GetConfig(ctx context.Context, shop string) (*domain.Config, error) {
	cfg, err := s.repo.Get(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get upsell settings: %w", err)
	}
	if cfg == nil {
		return &domain.Config{Shop: shop}, nil
	}
	return cfg, nil
}

// SaveConfig validates and stores the settings of shop, replacing any previous row.
func (s *UpsellService) SaveConfig(ctx context.Context, shop string, enabled bool, collectionID, title string) (*domain.Config, error) {
	cfg, err := domain.NewConfig(shop, enabled, collectionID, title)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("service: failed to save upsell settings: %w", err)
	}

	logger.FromContext(ctx).Info("Upsell settings saved",
		zap.String("shop", shop),
		zap.Bool("enabled", enabled),
	)
	return cfg, nil
}

// DeleteConfig drops the stored settings of shop, which then reads as disabled.
func (s *UpsellService) DeleteConfig(ctx context.Context, shop string) error {
	if err := s.repo.Delete(ctx, shop); err != nil {
		return fmt.Errorf("service: failed to delete upsell settings: %w", err)
	}

	logger.FromContext(ctx).Info("Upsell settings reset", zap.String("shop", shop))
	return nil
}
