package service

import (
	"context"
	"errors"

	"wismo-tracker/internal/core/logger"
	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/orders/domain"
	"wismo-tracker/internal/features/orders/ports"

	"go.uber.org/zap"
)

// MaxCandidates bounds how many same-name orders are fetched per lookup.
const MaxCandidates = 5

// ErrOrderNotFound is returned when no candidate order belongs to the given email.
// Upstream failures map to it as well, so callers cannot tell the two apart.
var ErrOrderNotFound = errors.New("order not found")

// OrderService matches a lookup against the orders of a shop.
type OrderService struct {
	// provider is the interface for fetching candidate orders.
	provider ports.OrderProvider
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(provider ports.OrderProvider) *OrderService {
	return &OrderService{
		provider: provider,
	}
}

// Match returns the first candidate named query.OrderName whose owner email equals query.Email.
// The platform's return order decides between several owned candidates.
func (s *OrderService) Match(ctx context.Context, admin shopify.Admin, query domain.NormalizedQuery) (*domain.Order, error) {
	log := logger.FromContext(ctx).With(zap.String("order_name", query.OrderName))

	candidates, err := s.provider.SearchByName(ctx, admin, query.OrderName, MaxCandidates)
	if err != nil {
		log.Error("Order search failed", zap.Error(err))
		return nil, ErrOrderNotFound
	}

	for i := range candidates {
		if candidates[i].OwnedBy(query.Email) {
			order := candidates[i]
			log.Debug("Order matched",
				zap.String("order_id", order.ID),
				zap.Int("candidates", len(candidates)),
			)
			return &order, nil
		}
	}

	log.Info("No order matched lookup", zap.Int("candidates", len(candidates)))
	return nil, ErrOrderNotFound
}
