package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mini_banking_api/internal/core/services"
	"github.com/SscSPs/mini_banking_api/internal/handlers"
	"github.com/SscSPs/mini_banking_api/internal/middleware"
	"github.com/SscSPs/mini_banking_api/internal/platform/config"
	"github.com/SscSPs/mini_banking_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/mini_banking_api/internal/repositories/inmemory"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/SscSPs/mini_banking_api/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

// @title Mini Banking API
// @version 1.0
// @description Accounts, cash operations and atomic transfers over a versioned ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, ping, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info("Rate limiting backed by redis.")
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	var healthCheck func(context.Context) error
	if cfg.EnableDBCheck {
		healthCheck = ping
	}
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, redisClient, posthogClient, healthCheck); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStorage builds the repositories for the configured driver. It also
// returns a liveness probe for the backing store and a function releasing
// its resources.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.RepositoryProvider, func(context.Context) error, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; all data is lost on exit.")
		store := inmemory.NewStore()
		for _, c := range seedCustomers() {
			store.AddCustomer(c)
		}
		return store.Provider(), func(context.Context) error { return nil }, func() {}, nil
	}

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return repositories.RepositoryProvider{}, nil, nil, err
	}

	poolOpts := database.DefaultPoolOptions()
	if cfg.DBMaxConns > 0 {
		poolOpts.MaxConns = cfg.DBMaxConns
	}
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, poolOpts)
	if err != nil {
		return repositories.RepositoryProvider{}, nil, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), dbPool.Ping, func() { database.ClosePgxPool(dbPool) }, nil
}

// seedCustomers mirrors the customers the SQL migrations insert, so both
// storage drivers start from the same state.
func seedCustomers() []domain.Customer {
	return []domain.Customer{
		{FirstName: "Ayse", LastName: "Yilmaz", IdentityNumber: "10000000146", Email: "ayse.yilmaz@example.com", Phone: "+905551112233"},
		{FirstName: "Mehmet", LastName: "Demir", IdentityNumber: "20000000046", Email: "mehmet.demir@example.com"},
	}
}
