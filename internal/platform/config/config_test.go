package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("TRANSFER_MAX_ATTEMPTS", 1)
	v.SetDefault("TRANSFER_RETRY_BASE_DELAY", "20ms")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"PGSQL_URL": "postgres://localhost/bank"}))
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 1, cfg.TransferMaxAttempts)
	assert.Equal(t, 20*time.Millisecond, cfg.TransferRetryBaseDelay)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"STORAGE_DRIVER":            "MEMORY",
		"LOG_LEVEL":                 "debug",
		"TRANSFER_MAX_ATTEMPTS":     5,
		"TRANSFER_RETRY_BASE_DELAY": "5ms",
		"CORS_ALLOWED_ORIGINS":      "https://a.example, https://b.example",
		"JWT_SECRET":                "s3cret",
		"DB_MAX_CONNS":              25,
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5, cfg.TransferMaxAttempts)
	assert.Equal(t, 5*time.Millisecond, cfg.TransferRetryBaseDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
}

func TestFromViper_Errors(t *testing.T) {
	_, err := fromViper(newViper(nil))
	assert.ErrorContains(t, err, "PGSQL_URL")

	_, err = fromViper(newViper(map[string]any{"STORAGE_DRIVER": "sqlite"}))
	assert.ErrorContains(t, err, "unsupported STORAGE_DRIVER")

	_, err = fromViper(newViper(map[string]any{"STORAGE_DRIVER": StorageMemory, "IS_PRODUCTION": true}))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestFromViper_InvalidValuesFallBack(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"STORAGE_DRIVER":        StorageMemory,
		"TRANSFER_MAX_ATTEMPTS": 0,
		"JWT_EXPIRY_DURATION":   "soon",
		"LOG_LEVEL":             "chatty",
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.TransferMaxAttempts)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}
