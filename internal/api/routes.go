package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mybestodds/mybestodds-go/internal/api/handlers"
	"github.com/mybestodds/mybestodds-go/internal/middleware"
)

// RouterDeps bundles the handlers and middleware SetupRoutes wires together.
type RouterDeps struct {
	Health      *handlers.HealthHandler
	Subscribers *handlers.SubscriberHandler
	Forecasts   *handlers.ForecastHandler
	Draws       *handlers.DrawHandler
	Auth        *middleware.AuthMiddleware
	Admin       *middleware.AdminMiddleware
}

// SetupRoutes registers every HTTP endpoint on the router.
func SetupRoutes(router *gin.Engine, deps RouterDeps) {
	// Health endpoints carry their own lightweight telemetry
	health := router.Group("/")
	health.Use(middleware.HealthCheckTelemetryMiddleware())
	{
		health.GET("/health", deps.Health.Check)
		health.GET("/live", deps.Health.Live)
		health.GET("/ready", deps.Health.Ready)
	}

	v1 := router.Group("/api/v1")
	{
		// Subscriber registration and login
		subscribers := v1.Group("/subscribers")
		{
			subscribers.POST("/register", deps.Subscribers.Register)
			subscribers.POST("/login", deps.Subscribers.Login)

			profile := subscribers.Group("")
			profile.Use(deps.Auth.RequireAuth())
			{
				profile.GET("/profile", deps.Subscribers.GetProfile)
				profile.PUT("/profile", deps.Subscribers.UpdateProfile)
				profile.DELETE("/profile", deps.Subscribers.DeleteProfile)
			}
		}

		// Forecast runs and exports for the authenticated subscriber
		forecasts := v1.Group("/forecasts")
		forecasts.Use(deps.Auth.RequireAuth())
		{
			forecasts.POST("/run", deps.Forecasts.Run)
			forecasts.GET("", deps.Forecasts.List)
			forecasts.GET("/export", deps.Forecasts.Export)
		}

		// Draw history is public read; a Bearer token still attributes
		// the request to its subscriber
		draws := v1.Group("/draws")
		draws.Use(deps.Auth.OptionalAuth())
		{
			draws.GET("/:game/latest", deps.Draws.Latest)
			draws.GET("/:game/history", deps.Draws.History)
		}

		// Operational endpoints
		admin := v1.Group("/admin")
		admin.Use(deps.Admin.RequireAdminAuth())
		{
			admin.POST("/draws", deps.Draws.Ingest)
			admin.POST("/forecasts/batch", deps.Forecasts.RunBatch)
			admin.DELETE("/forecasts", deps.Forecasts.Purge)
			admin.GET("/metrics", deps.Health.Metrics)
		}
	}
}
