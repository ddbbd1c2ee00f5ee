package ports

import (
	"context"

	"wismo-tracker/internal/core/shopify"
	authdomain "wismo-tracker/internal/features/auth/domain"
	orderdomain "wismo-tracker/internal/features/orders/domain"
	upselldomain "wismo-tracker/internal/features/upsell/domain"
)

// CallerResolver establishes the shop and Admin handle of a request.
type CallerResolver interface {
	Resolve(ctx context.Context, req authdomain.ProxyRequest) (*authdomain.Caller, error)
}

// OrderMatcher selects the order a lookup refers to.
type OrderMatcher interface {
	Match(ctx context.Context, admin shopify.Admin, query orderdomain.NormalizedQuery) (*orderdomain.Order, error)
}

// UpsellAggregator builds the optional recommendation block. It never fails.
type UpsellAggregator interface {
	Aggregate(ctx context.Context, admin shopify.Admin, shop string) *upselldomain.Payload
}
