package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string
	LogLevel       slog.Level
	DBMaxConns     int32

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RateLimit          string
	LoginRateLimit     string
	RedisURL           string
	CORSAllowedOrigins []string

	// Transfer retry on concurrency conflict. One attempt means no retry.
	TransferMaxAttempts    int
	TransferRetryBaseDelay time.Duration

	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "mini-banking-api")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TRANSFER_MAX_ATTEMPTS", 1)
	v.SetDefault("TRANSFER_RETRY_BASE_DELAY", "20ms")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")

	// Environment variables override defaults and .env values.
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:     v.GetString("PGSQL_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   v.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:  v.GetString("MIGRATIONS_PATH"),
		DBMaxConns:      v.GetInt32("DB_MAX_CONNS"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTIssuer:       v.GetString("JWT_ISSUER"),
		RateLimit:       v.GetString("RATE_LIMIT"),
		LoginRateLimit:  v.GetString("LOGIN_RATE_LIMIT"),
		RedisURL:        v.GetString("REDIS_URL"),
		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: v.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, all data is lost on restart.")
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q (want %s or %s)", cfg.StorageDriver, StoragePostgres, StorageMemory)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid LOG_LEVEL ('%s'). Defaulting to info.\n", v.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.TransferMaxAttempts = v.GetInt("TRANSFER_MAX_ATTEMPTS")
	if cfg.TransferMaxAttempts < 1 {
		log.Printf("Warning: TRANSFER_MAX_ATTEMPTS must be at least 1, got %d. Defaulting to 1.\n", cfg.TransferMaxAttempts)
		cfg.TransferMaxAttempts = 1
	}
	baseDelayStr := v.GetString("TRANSFER_RETRY_BASE_DELAY")
	cfg.TransferRetryBaseDelay, err = time.ParseDuration(baseDelayStr)
	if err != nil || cfg.TransferRetryBaseDelay < 0 {
		cfg.TransferRetryBaseDelay = 20 * time.Millisecond
		log.Printf("Warning: Invalid value for TRANSFER_RETRY_BASE_DELAY ('%s'). Defaulting to %s.\n", baseDelayStr, cfg.TransferRetryBaseDelay)
	}

	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
