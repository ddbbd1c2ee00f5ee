package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wismo-tracker/internal/core/cache"
	"wismo-tracker/internal/features/auth/domain"
)

const offlineSessionPrefix = "session:offline_"

// RedisSessionStore reads offline sessions written by the app's install flow.
type RedisSessionStore struct {
	cache cache.Cache
}

// NewRedisSessionStore creates a new RedisSessionStore.
func NewRedisSessionStore(c cache.Cache) *RedisSessionStore {
	return &RedisSessionStore{cache: c}
}

// Get returns the offline session of shop, or nil when there is none.
func (s *RedisSessionStore) Get(ctx context.Context, shop string) (*domain.Session, error) {
	data, err := s.cache.Get(ctx, offlineSessionPrefix+shop)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save stores an offline session without expiry.
func (s *RedisSessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, offlineSessionPrefix+session.Shop, data, 0); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
