package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rubberops")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rubberops")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "INR", cfg.CurrencyCode)
	assert.False(t, cfg.SeedManager)
}

func TestLoadDurationAsSeconds(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rubberops")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HTTP_READ_TIMEOUT", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
}
