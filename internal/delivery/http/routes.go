package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/solvurder/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		satellite := v1.Group("/satellite-image")
		{
			satellite.GET("", handler.GetSatelliteImage)
			satellite.DELETE("/cache/clear", RequireAPIKey(cfg.Server.APIAccessKey), handler.ClearImageCache)

			if cfg.Diagnostics.Enabled {
				satellite.GET("/cache/stats", handler.CacheStats)
				satellite.GET("/debug", handler.Debug)
			} else {
				disabled := diagnosticsDisabledHandler()
				satellite.GET("/cache/stats", disabled)
				satellite.GET("/debug", disabled)
			}
		}
	}

	// Prometheus metrics ride behind the same diagnostics flag
	if cfg.Diagnostics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return router
}

// diagnosticsDisabledHandler answers 404 with a hint at the feature flag
func diagnosticsDisabledHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success":     false,
			"error":       "Satellite diagnostics endpoint is disabled",
			"featureFlag": "SOLVURDER_DIAGNOSTICS_ENABLED",
		})
	}
}
