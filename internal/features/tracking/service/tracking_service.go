package service

import (
	"context"
	"fmt"

	"wismo-tracker/internal/core/logger"
	authdomain "wismo-tracker/internal/features/auth/domain"
	orderdomain "wismo-tracker/internal/features/orders/domain"
	orderservice "wismo-tracker/internal/features/orders/service"
	"wismo-tracker/internal/features/tracking/domain"
	"wismo-tracker/internal/features/tracking/ports"
	upselldomain "wismo-tracker/internal/features/upsell/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TrackingService answers order lookups for an authenticated caller.
type TrackingService struct {
	orders ports.OrderMatcher
	upsell ports.UpsellAggregator
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(orders ports.OrderMatcher, upsell ports.UpsellAggregator) *TrackingService {
	return &TrackingService{
		orders: orders,
		upsell: upsell,
	}
}

// Track matches the order and loads the upsell block concurrently.
// When no order matches, the upsell read is cancelled and the matcher's error is returned.
func (s *TrackingService) Track(ctx context.Context, caller *authdomain.Caller, req orderdomain.LookupRequest) (*domain.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	query := req.Normalized()

	var (
		order  *orderdomain.Order
		upsell *upselldomain.Payload
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		defer recoverAsError("order matcher", &err)
		order, err = s.orders.Match(gctx, caller.Admin, query)
		return err
	})

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				logger.FromContext(ctx).Error("Upsell aggregation panicked", zap.Any("panic", r))
				upsell = nil
			}
		}()
		upsell = s.upsell.Aggregate(gctx, caller.Admin, caller.Shop)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderservice.ErrOrderNotFound
	}

	return domain.NewResult(order, upsell), nil
}

func recoverAsError(stage string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s panicked: %v", stage, r)
	}
}
