package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wismo-tracker/internal/core/config"
	"wismo-tracker/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "wismo-tracker/docs/swagger"
)

// RayIDHeader carries the request id on requests and responses.
const RayIDHeader = "X-Ray-ID"

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck is one dependency probed by GET /health.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg    *config.AppConfig
	checks []HealthCheck
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig, checks ...HealthCheck) *Server {
	trusted := cfg.TrustedProxyList()
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "wismo-tracker",
		ErrorHandler:          errorHandler,

		// Storefront traffic arrives through the Shopify app proxy, so the
		// customer address is the first valid entry of X-Forwarded-For.
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableIPValidation:      true,
		EnableTrustedProxyCheck: len(trusted) > 0,
		TrustedProxies:          trusted,
	})

	app.Use(requestid.New(requestid.Config{
		Header:    RayIDHeader,
		Generator: uuid.NewString,
	}))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.IsDevelopment(),
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
		Fields: []string{"requestId", "status", "method", "path", "latency", "ip"},
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	s := &Server{
		App:    app,
		cfg:    cfg,
		checks: checks,
	}
	app.Get("/health", s.health)

	return s
}

// health godoc
// @Summary Health check
// @Description Pings Redis and, when configured, Postgres.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	status := fiber.Map{"status": "ok"}
	code := fiber.StatusOK
	for _, check := range s.checks {
		if err := check.Pinger.Ping(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("dependency", check.Name), zap.Error(err))
			status[check.Name] = "unavailable"
			status["status"] = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		status[check.Name] = "ok"
	}
	return c.Status(code).JSON(status)
}

// errorHandler turns unhandled errors and recovered panics into JSON bodies.
// Anything that is not a *fiber.Error becomes a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	rayID, _ := c.Locals("requestid").(string)

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code != fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error":   fe.Message,
			"message": fe.Message,
			"ray_id":  rayID,
		})
	}

	logger.Get().Error("Unhandled request error",
		zap.String("ray_id", rayID),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"message": "Something went wrong. Please try again later.",
		"ray_id":  rayID,
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
