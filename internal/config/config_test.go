package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STARTUP_TIMEOUT", "")
	t.Setenv("RATE_LIMIT_PER_MIN", "")

	cfg := Load()
	assert.Equal(t, "3001", cfg.HTTPPort)
	assert.Contains(t, cfg.DatabaseURL, "postgres://")
	assert.Equal(t, 10*time.Second, cfg.StartupTimeout)
	assert.Equal(t, "memory", cfg.RateLimitBackend)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("STARTUP_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("RATE_LIMIT_PER_MIN", "10")

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DatabaseURL)
	assert.Equal(t, 3*time.Second, cfg.StartupTimeout)
	assert.Equal(t, "redis", cfg.RateLimitBackend)
	assert.Equal(t, 10, cfg.RateLimitPerMin)
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("STARTUP_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_PER_MIN", "many")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.StartupTimeout)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}
