package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mybestodds/mybestodds-go/internal/api"
	"github.com/mybestodds/mybestodds-go/internal/api/handlers"
	"github.com/mybestodds/mybestodds-go/internal/cache"
	"github.com/mybestodds/mybestodds-go/internal/config"
	"github.com/mybestodds/mybestodds-go/internal/database"
	"github.com/mybestodds/mybestodds-go/internal/middleware"
	"github.com/mybestodds/mybestodds-go/internal/services"
	"github.com/mybestodds/mybestodds-go/internal/telemetry"
)

const version = "3.7.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience; a missing .env is not an error
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	shutdownTelemetry, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			logger.WithError(err).Warn("Failed to shut down telemetry")
		}
	}()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redis.Close()

	drawRepo := database.NewDrawRepository(db.Pool)
	forecastRepo := database.NewForecastRepository(db.Pool)
	subscriberRepo := database.NewSubscriberRepository(db.Pool)

	var provider services.OverlayProvider
	if cfg.Overlay.Provider == "fallback" {
		provider = services.NewFallbackProvider()
	} else {
		provider = services.NewEphemerisProvider(logger)
	}

	cacheTTL := 6 * time.Hour
	if parsed, err := time.ParseDuration(cfg.Overlay.CacheTTL); err == nil {
		cacheTTL = parsed
	}
	overlayCache := cache.NewRedisOverlayCache(redis.Client, cacheTTL, cfg.Overlay.Provider)

	forecastService := services.NewForecastService(drawRepo, forecastRepo, provider, overlayCache, cfg.Scoring, logger)
	notificationService := services.NewNotificationService(cfg.Telegram.BotToken, logger)
	exporter := services.NewExporter(logger)
	monitor := services.NewPerformanceMonitor(logger)

	tokenTTL := 24 * time.Hour
	if parsed, err := time.ParseDuration(cfg.Security.JWTExpiry); err == nil {
		tokenTTL = parsed
	}
	auth := middleware.NewAuthMiddleware(cfg.Security.JWTSecret)
	admin := middleware.NewAdminMiddleware(cfg.Security.AdminAPIKey)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("mybestodds"))

	api.SetupRoutes(router, api.RouterDeps{
		Health:      handlers.NewHealthHandler(db, redis, monitor, version),
		Subscribers: handlers.NewSubscriberHandler(subscriberRepo, auth, cfg.Security.BcryptCost, tokenTTL, logger),
		Forecasts:   handlers.NewForecastHandler(forecastService, forecastRepo, subscriberRepo, notificationService, exporter, monitor, cfg.Export.OutputDir, logger),
		Draws:       handlers.NewDrawHandler(drawRepo, logger),
		Auth:        auth,
		Admin:       admin,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       15 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"version": version,
			"port":    cfg.Server.Port,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited gracefully")
	return nil
}
