package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wismo-tracker/internal/core/cache"
	"wismo-tracker/internal/features/upsell/domain"
)

const settingsKeyPrefix = "upsell_settings:"

// RedisConfigRepository implements ports.ConfigRepository on top of the cache port.
type RedisConfigRepository struct {
	cache cache.Cache
}

// NewRedisConfigRepository creates a new RedisConfigRepository.
func NewRedisConfigRepository(c cache.Cache) *RedisConfigRepository {
	return &RedisConfigRepository{
		cache: c,
	}
}

func settingsKey(shop string) string {
	return settingsKeyPrefix + shop
}

// Save stores the settings without expiry, overwriting any previous value.
func (r *RedisConfigRepository) Save(ctx context.Context, cfg *domain.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal upsell settings: %w", err)
	}

	if err := r.cache.Set(ctx, settingsKey(cfg.Shop), data, 0); err != nil {
		return fmt.Errorf("failed to save upsell settings: %w", err)
	}

	return nil
}

// Get retrieves the settings for shop, or nil when none are stored.
func (r *RedisConfigRepository) Get(ctx context.Context, shop string) (*domain.Config, error) {
	data, err := r.cache.Get(ctx, settingsKey(shop))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get upsell settings: %w", err)
	}

	var cfg domain.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal upsell settings: %w", err)
	}

	return &cfg, nil
}

// Delete removes the stored settings of shop.
func (r *RedisConfigRepository) Delete(ctx context.Context, shop string) error {
	if err := r.cache.Delete(ctx, settingsKey(shop)); err != nil {
		return fmt.Errorf("failed to delete upsell settings: %w", err)
	}
	return nil
}
