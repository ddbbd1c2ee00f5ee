package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wismo-tracker/internal/core/cache"
	"wismo-tracker/internal/core/config"
	"wismo-tracker/internal/core/database"
	"wismo-tracker/internal/core/httpclient"
	"wismo-tracker/internal/core/logger"
	"wismo-tracker/internal/core/ratelimit"
	"wismo-tracker/internal/core/server"
	"wismo-tracker/internal/core/shopify"
	authadapters "wismo-tracker/internal/features/auth/adapters"
	authdomain "wismo-tracker/internal/features/auth/domain"
	authservice "wismo-tracker/internal/features/auth/service"
	orderadapter "wismo-tracker/internal/features/orders/adapters"
	orderservice "wismo-tracker/internal/features/orders/service"
	trackinghandler "wismo-tracker/internal/features/tracking/handler"
	trackingservice "wismo-tracker/internal/features/tracking/service"
	upselladapters "wismo-tracker/internal/features/upsell/adapters"
	upsellhandler "wismo-tracker/internal/features/upsell/handler"
	"wismo-tracker/internal/features/upsell/ports"
	upsellservice "wismo-tracker/internal/features/upsell/service"

	"go.uber.org/zap"
)

const (
	proxySignatureMaxAge = 5 * time.Minute
	limiterSweepInterval = time.Minute
	shutdownTimeout      = 10 * time.Second
	sessionTokenLeeway   = 5 * time.Second
)

// @title WISMO Tracker API
// @version 1.0
// @description Order status lookup for Shopify storefronts, served through the app proxy.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("settings_store", cfg.Database.SettingsStore),
	)

	ctx := context.Background()

	// Redis backs offline sessions and, by default, upsell settings.
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer redisCache.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = redisCache.Ping(pingCtx)
	cancel()
	if err != nil {
		if !cfg.IsDevelopment() {
			l.Fatal("Redis connection failed", zap.Error(err))
		}
		l.Warn("Redis connection failed, lookups will fall back to development defaults", zap.Error(err))
	} else {
		l.Info("Redis connection verified")
	}

	healthChecks := []server.HealthCheck{{Name: "redis", Pinger: redisCache}}

	var settingsRepo ports.ConfigRepository
	if cfg.UsesPostgres() {
		db, err := database.Open(ctx, cfg.Database.URL)
		if err != nil {
			l.Fatal("Postgres connection failed", zap.Error(err))
		}
		defer db.Close()

		pgRepo := upselladapters.NewPostgresConfigRepository(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			l.Fatal("Failed to prepare settings table", zap.Error(err))
		}
		settingsRepo = pgRepo
		healthChecks = append(healthChecks, server.HealthCheck{Name: "postgres", Pinger: database.Pinger{DB: db}})
		l.Info("Postgres settings store ready")
	} else {
		settingsRepo = upselladapters.NewRedisConfigRepository(redisCache)
	}

	// Shopify Admin API access
	httpClient := httpclient.NewProxiedClient(time.Duration(cfg.Shopify.TimeoutSeconds)*time.Second, cfg.Proxy)
	factory := shopify.Factory{APIVersion: cfg.Shopify.APIVersion, HTTPClient: httpClient}

	sessions := authadapters.NewRedisSessionStore(redisCache)
	admins := authadapters.NewSessionAdminSource(sessions, factory, cfg.Shopify.ShopDomain, cfg.Shopify.AdminToken)
	verifier := shopify.ProxyVerifier{Secret: cfg.Shopify.APISecret, MaxAge: proxySignatureMaxAge}
	mode := authdomain.ModeFor(cfg.Environment)
	resolver := authservice.NewResolver(mode, verifier, admins)
	l.Info("Authentication resolver ready", zap.String("mode", string(mode)))

	// Lookup pipeline
	orderSvc := orderservice.NewOrderService(orderadapter.NewShopifyOrderAdapter())
	upsellSvc := upsellservice.NewUpsellService(settingsRepo, upselladapters.NewShopifyProductAdapter())
	trackingSvc := trackingservice.NewTrackingService(orderSvc, upsellSvc)
	trackingHdl := trackinghandler.NewTrackingHandler(resolver, trackingSvc)

	srv := server.New(cfg, healthChecks...)

	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	stopSweep := make(chan struct{})
	go limiter.Run(limiterSweepInterval, stopSweep)
	defer close(stopSweep)

	// Register Routes
	srv.App.Get("/track", limiter.Middleware(ratelimit.ByShopAndIP), trackingHdl.Track)
	srv.App.Get("/apps/track", limiter.Middleware(ratelimit.ByShopAndIP), trackingHdl.Track)

	sessionTokens := shopify.SessionTokenValidator{
		APIKey: cfg.Shopify.APIKey,
		Secret: cfg.Shopify.APISecret,
		Leeway: sessionTokenLeeway,
	}
	if cfg.AdminToken == "" {
		l.Info("ADMIN_API_TOKEN not set, settings accept session tokens only")
	}
	settingsHdl := upsellhandler.NewSettingsHandler(upsellSvc)
	requireAdmin := upsellhandler.RequireAdmin(cfg.AdminToken, sessionTokens)
	srv.App.Get("/admin/settings/:shop", requireAdmin, settingsHdl.GetSettings)
	srv.App.Put("/admin/settings/:shop", requireAdmin, settingsHdl.SaveSettings)
	srv.App.Delete("/admin/settings/:shop", requireAdmin, settingsHdl.DeleteSettings)

	go func() {
		if err := srv.Run(); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	l.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("Graceful shutdown failed", zap.Error(err))
	}
}
