package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"wismo-tracker/internal/core/logger"
	"wismo-tracker/internal/core/shopify"
	"wismo-tracker/internal/features/upsell/domain"
	"wismo-tracker/internal/features/upsell/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SettingsHandler handles HTTP requests for per-shop upsell settings.
type SettingsHandler struct {
	service ports.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		service: service,
	}
}

// SaveSettingsRequest represents the request body for updating settings.
type SaveSettingsRequest struct {
	IsEnabled    bool   `json:"is_enabled"`
	CollectionID string `json:"upsell_collection_id"`
	Title        string `json:"upsell_title"`
}

// SessionTokenValidator resolves the shop a Shopify session token was issued for.
type SessionTokenValidator interface {
	Validate(token string) (string, error)
}

// RequireAdmin authorizes settings requests. It accepts the static admin token for any
// shop, or an embedded app session token issued for the shop in the path.
func RequireAdmin(adminToken string, sessions SessionTokenValidator) fiber.Handler {
	expected := []byte(adminToken)
	return func(c *fiber.Ctx) error {
		provided, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		provided = strings.TrimSpace(provided)
		if !ok || provided == "" {
			return unauthorized(c)
		}

		if len(expected) > 0 && subtle.ConstantTimeCompare([]byte(provided), expected) == 1 {
			return c.Next()
		}

		if sessions != nil {
			shop, err := sessions.Validate(provided)
			if err == nil {
				if target, _ := shopParam(c); target != shop {
					return c.Status(http.StatusForbidden).JSON(fiber.Map{
						"error": "Forbidden",
					})
				}
				return c.Next()
			}
			logger.Get().Debug("Session token rejected", zap.Error(err))
		}

		return unauthorized(c)
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

// GetSettings handles GET /admin/settings/:shop.
// @Summary Get upsell settings
// @Description Returns the upsell settings of a shop, or disabled defaults.
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Param shop path string true "Shop domain, e.g. demo.myshopify.com"
// @Success 200 {object} domain.Config
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/settings/{shop} [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	shop, ok := shopParam(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid shop domain",
		})
	}

	cfg, err := h.service.GetConfig(c.UserContext(), shop)
	if err != nil {
		logger.Get().Error("Failed to get upsell settings", zap.String("shop", shop), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(cfg)
}

// SaveSettings handles PUT /admin/settings/:shop.
// @Summary Save upsell settings
// @Description Creates or replaces the upsell settings of a shop.
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shop path string true "Shop domain, e.g. demo.myshopify.com"
// @Param settings body SaveSettingsRequest true "Upsell settings"
// @Success 200 {object} domain.Config
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/settings/{shop} [put]
func (h *SettingsHandler) SaveSettings(c *fiber.Ctx) error {
	shop, ok := shopParam(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid shop domain",
		})
	}

	var req SaveSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cfg, err := h.service.SaveConfig(c.UserContext(), shop, req.IsEnabled, req.CollectionID, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidConfig) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		logger.Get().Error("Failed to save upsell settings", zap.String("shop", shop), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(cfg)
}

// DeleteSettings handles DELETE /admin/settings/:shop.
// @Summary Reset upsell settings
// @Description Removes the stored upsell settings of a shop; later reads return disabled defaults.
// @Tags Settings
// @Security BearerAuth
// @Param shop path string true "Shop domain, e.g. demo.myshopify.com"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/settings/{shop} [delete]
func (h *SettingsHandler) DeleteSettings(c *fiber.Ctx) error {
	shop, ok := shopParam(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid shop domain",
		})
	}

	if err := h.service.DeleteConfig(c.UserContext(), shop); err != nil {
		logger.Get().Error("Failed to delete upsell settings", zap.String("shop", shop), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.SendStatus(http.StatusNoContent)
}

func shopParam(c *fiber.Ctx) (string, bool) {
	shop := shopify.NormalizeShopDomain(c.Params("shop"))
	return shop, shopify.ValidShopDomain(shop)
}
