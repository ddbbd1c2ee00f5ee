package handler

import (
	"errors"
	"net/url"

	"wismo-tracker/internal/core/logger"
	authdomain "wismo-tracker/internal/features/auth/domain"
	orderdomain "wismo-tracker/internal/features/orders/domain"
	orderservice "wismo-tracker/internal/features/orders/service"
	"wismo-tracker/internal/features/tracking/domain"
	"wismo-tracker/internal/features/tracking/ports"
	"wismo-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrackingHandler handles HTTP requests for order lookups.
type TrackingHandler struct {
	resolver        ports.CallerResolver
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(resolver ports.CallerResolver, trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		resolver:        resolver,
		trackingService: trackingService,
	}
}

// Track godoc
// @Summary Look up an order
// @Description Finds an order by number and owner email and returns its fulfillment status, tracking and recommended products. Must be called through the Shopify app proxy.
// @Tags tracking
// @Produce json
// @Param orderName query string true "Order number, with or without #"
// @Param email query string true "Email used at checkout"
// @Param shop query string false "Shop domain (set by the app proxy)"
// @Param signature query string false "App proxy signature"
// @Success 200 {object} domain.Result
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.NotFoundResponse
// @Failure 429 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Failure 503 {object} domain.ErrorResponse
// @Router /track [get]
func (h *TrackingHandler) Track(c *fiber.Ctx) error {
	rayID, _ := c.Locals("requestid").(string)
	log := logger.Get().With(zap.String("ray_id", rayID))
	ctx := logger.WithContext(c.UserContext(), log)

	req := orderdomain.LookupRequest{
		OrderIdentifier: c.Query("orderName"),
		Email:           c.Query("email"),
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.ErrorResponse{
			Error:   domain.ErrorBadRequest,
			Message: domain.MessageMissingParams,
			RayID:   rayID,
		})
	}

	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	caller, err := h.resolver.Resolve(ctx, authdomain.ProxyRequest{Query: query})
	switch {
	case errors.Is(err, authdomain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(domain.ErrorResponse{
			Error:   domain.ErrorUnauthorized,
			Message: domain.MessageUnauthorized,
			RayID:   rayID,
		})
	case errors.Is(err, authdomain.ErrServiceUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(domain.ErrorResponse{
			Error:   domain.ErrorUnavailable,
			Message: domain.MessageUnavailable,
			RayID:   rayID,
		})
	case err != nil:
		log.Error("Caller resolution failed", zap.Error(err))
		return internalError(c, rayID)
	}

	result, err := h.trackingService.Track(ctx, caller, req)
	if err != nil {
		if errors.Is(err, orderservice.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(domain.NotFoundResponse{
				Found:   false,
				Message: domain.MessageNotFound,
			})
		}
		log.Error("Order lookup failed", zap.String("shop", caller.Shop), zap.Error(err))
		return internalError(c, rayID)
	}

	log.Info("Order lookup served",
		zap.String("shop", caller.Shop),
		zap.String("status", result.Status),
		zap.Bool("upsell", result.Upsell != nil),
	)
	return c.JSON(result)
}

func internalError(c *fiber.Ctx, rayID string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(domain.ErrorResponse{
		Error:   domain.ErrorInternal,
		Message: domain.MessageInternalError,
		RayID:   rayID,
	})
}
