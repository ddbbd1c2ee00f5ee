package domain

import (
	orderdomain "wismo-tracker/internal/features/orders/domain"
	upselldomain "wismo-tracker/internal/features/upsell/domain"
)

// Customer-facing messages. Details stay in the logs.
const (
	MessageNotFound      = "We couldn't find an order with that number and email."
	MessageMissingParams = "Missing order number or email"
	MessageUnauthorized  = "Must be accessed via App Proxy"
	MessageUnavailable   = "Could not connect to Shopify API."
	MessageInternalError = "Something went wrong. Please try again later."
	ErrorBadRequest      = "Bad Request"
	ErrorUnauthorized    = "Unauthorized"
	ErrorUnavailable     = "Service unavailable"
	ErrorInternal        = "Internal Server Error"
)

// Result is the body of a successful lookup.
type Result struct {
	Found             bool                      `json:"found"`
	Status            string                    `json:"status"`
	Tracking          *orderdomain.TrackingInfo `json:"tracking"`
	Items             []string                  `json:"items"`
	EstimatedDelivery string                    `json:"estimatedDelivery"`
	Upsell            *upselldomain.Payload     `json:"upsell"`
}

// NewResult projects order into a Result and attaches upsell, which may be nil.
func NewResult(order *orderdomain.Order, upsell *upselldomain.Payload) *Result {
	return &Result{
		Found:             true,
		Status:            string(order.Status),
		Tracking:          order.PrimaryTracking(),
		Items:             order.ItemNames(),
		EstimatedDelivery: orderdomain.EstimatedDeliveryPlaceholder,
		Upsell:            upsell,
	}
}

// NotFoundResponse is the body returned when no order matches.
type NotFoundResponse struct {
	Found   bool   `json:"found"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Error is a short category, e.g. "Bad Request".
	Error string `json:"error"`
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}
