package ports

import (
	"context"

	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/upsell/domain"
)

// SettingsService defines the primary port for reading and writing upsell settings.
type SettingsService interface {
	GetConfig(ctx context.Context, shop string) (*domain.Config, error)
	SaveConfig(ctx context.Context, shop string, enabled bool, collectionID, title string) (*domain.Config, error)
	DeleteConfig(ctx context.Context, shop string) error
}

// ConfigRepository defines the secondary port for settings storage.
// Get returns nil, nil when the shop has no row. Delete of a missing row is not an error.
type ConfigRepository interface {
	Get(ctx context.Context, shop string) (*domain.Config, error)
	Save(ctx context.Context, cfg *domain.Config) error
	Delete(ctx context.Context, shop string) error
}

// ProductProvider lists products of a collection.
type ProductProvider interface {
	CollectionProducts(ctx context.Context, admin shopify.Admin, collectionID string, limit int) ([]domain.Product, error)
}
