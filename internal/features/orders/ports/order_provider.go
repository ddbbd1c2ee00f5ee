package ports

import (
	"context"

	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/orders/domain"
)

// OrderProvider defines the interface for retrieving candidate orders.
// This is a Secondary Port (Driven Port).
type OrderProvider interface {
	// SearchByName returns up to limit orders whose name equals name exactly,
	// in the order the platform returned them.
	SearchByName(ctx context.Context, admin shopify.Admin, name string, limit int) ([]domain.Order, error)
}
