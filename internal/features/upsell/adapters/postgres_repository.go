package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wismo-tracker/internal/features/upsell/domain"
)

// SettingsSchema creates the settings table when missing.
const SettingsSchema = `
CREATE TABLE IF NOT EXISTS wismo_settings (
	shop                 TEXT PRIMARY KEY,
	is_enabled           BOOLEAN NOT NULL DEFAULT FALSE,
	upsell_collection_id TEXT,
	upsell_title         TEXT,
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const (
	selectSettingsQuery = "SELECT shop, is_enabled, upsell_collection_id, upsell_title, updated_at FROM wismo_settings WHERE shop = $1"

	deleteSettingsQuery = "DELETE FROM wismo_settings WHERE shop = $1"

	upsertSettingsQuery = `
		INSERT INTO wismo_settings (shop, is_enabled, upsell_collection_id, upsell_title, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (shop) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			upsell_collection_id = EXCLUDED.upsell_collection_id,
			upsell_title = EXCLUDED.upsell_title,
			updated_at = EXCLUDED.updated_at
	`
)

// PostgresConfigRepository implements ports.ConfigRepository using PostgreSQL.
type PostgresConfigRepository struct {
	db *sql.DB
}

// NewPostgresConfigRepository creates a new PostgresConfigRepository.
func NewPostgresConfigRepository(db *sql.DB) *PostgresConfigRepository {
	return &PostgresConfigRepository{db: db}
}

// EnsureSchema creates the settings table if it does not exist.
func (r *PostgresConfigRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, SettingsSchema); err != nil {
		return fmt.Errorf("failed to create wismo_settings: %w", err)
	}
	return nil
}

// Get loads at most one row for shop. A missing row returns nil, nil.
func (r *PostgresConfigRepository) Get(ctx context.Context, shop string) (*domain.Config, error) {
	var (
		cfg          domain.Config
		collectionID sql.NullString
		title        sql.NullString
	)

	err := r.db.QueryRowContext(ctx, selectSettingsQuery, shop).Scan(
		&cfg.Shop,
		&cfg.IsEnabled,
		&collectionID,
		&title,
		&cfg.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upsell settings: %w", err)
	}

	cfg.CollectionID = collectionID.String
	cfg.Title = title.String
	return &cfg, nil
}

// Save upserts the row keyed by shop.
func (r *PostgresConfigRepository) Save(ctx context.Context, cfg *domain.Config) error {
	_, err := r.db.ExecContext(ctx, upsertSettingsQuery,
		cfg.Shop,
		cfg.IsEnabled,
		nullIfEmpty(cfg.CollectionID),
		nullIfEmpty(cfg.Title),
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to persist upsell settings: %w", err)
	}
	return nil
}

// Delete removes the row of shop, if any.
func (r *PostgresConfigRepository) Delete(ctx context.Context, shop string) error {
	if _, err := r.db.ExecContext(ctx, deleteSettingsQuery, shop); err != nil {
		return fmt.Errorf("failed to delete upsell settings: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
