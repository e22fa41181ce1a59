package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "./intensivo.db", cfg.DatabasePath)
	assert.Equal(t, "default-secret-key", cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:8000", "http://127.0.0.1:8000"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, "0 22 * * *", cfg.AttendanceCloseSpec)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("JWT_EXPIRE", "24h")
	t.Setenv("CORS_ORIGIN", "https://example.com,https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://example.com", "https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
