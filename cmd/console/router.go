package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"address-console/internal/shared/middleware"
	"address-console/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.Metrics(c.Metrics),
	)

	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupConsoleRoutes(v1, c)
	}

	return router
}

// ========================================
// CONSOLE ROUTES
// ========================================
// Mọi route console yêu cầu operator token
func setupConsoleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	console := v1.Group("")
	console.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.OperatorMiddleware(c.Config.JWT.AllowedOperators),
	)

	var generationLimit []gin.HandlerFunc
	if c.Config.RateLimit.Enabled {
		generationLimit = append(generationLimit, c.GenerationLimiter.Limit())
	}

	c.ConsoleHandler.RegisterRoutes(console)
	c.AddressHandler.RegisterRoutes(console)
	c.TagHandler.RegisterRoutes(console)
	c.GenerationHandler.RegisterRoutes(console, generationLimit...)
	c.SettingsHandler.RegisterRoutes(console)
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"backend":   appCtx.Config.Backend.Catalog,
		}
		services := gin.H{}

		// Database chỉ có khi CATALOG_BACKEND=postgres
		if appCtx.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			dbStatus := "ok"
			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
			services["database"] = dbStatus
		}

		cacheStatus := "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := appCtx.Cache.Ping(ctx); err != nil {
			cacheStatus = fmt.Sprintf("error: %v", err)
		}
		services["cache"] = cacheStatus
		health["services"] = services

		status := http.StatusOK
		if health["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
