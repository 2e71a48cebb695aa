package handlers

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/SscSPs/mini_banking_api/cmd/docs"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/middleware"
	"github.com/SscSPs/mini_banking_api/internal/platform/config"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// redisClient, when non-nil, backs the rate limiters so limits hold across instances.
// healthCheck, when non-nil, is consulted by /health.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	redisClient *redis.Client,
	posthogClient *utils.PosthogClientWrapper,
	healthCheck func(context.Context) error,
) error {
	r.Use(corsMiddleware(cfg.CORSAllowedOrigins))

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		if healthCheck != nil {
			if err := healthCheck(c.Request.Context()); err != nil {
				respondError(c, err, "Health check failed")
				return
			}
		}
		c.String(http.StatusOK, "OK")
	})

	apiLimiter, err := middleware.NewRateLimiter(cfg.RateLimit, "api", redisClient)
	if err != nil {
		return fmt.Errorf("api rate limiter: %w", err)
	}
	loginLimiter, err := middleware.NewRateLimiter(cfg.LoginRateLimit, "login", redisClient)
	if err != nil {
		return fmt.Errorf("login rate limiter: %w", err)
	}

	api := r.Group("/api/v1", middleware.RateLimit(apiLimiter))

	// Register public authentication routes
	RegisterAuthRoutes(api, services.Auth, middleware.GinMiddlewarize(loginLimiter))

	// Everything else requires a bearer token
	protected := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer), middleware.PosthogMiddleware(posthogClient))
	RegisterAccountRoutes(protected, services.Account)
	RegisterTransferRoutes(protected, services.Transfer, posthogClient)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", IdempotencyKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	return cors.New(corsCfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
