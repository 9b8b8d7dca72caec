package config_test

import (
	"testing"

	"github.com/SscSPs/rental_reconciler/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/reconciler")
	t.Setenv("BATCH_MAX_ITEMS", "50")
	t.Setenv("BATCH_RATE_LIMIT", "5-S")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("IS_PRODUCTION", "true")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/reconciler", cfg.DatabaseURL)
	assert.Equal(t, 50, cfg.BatchMaxItems)
	assert.Equal(t, "5-S", cfg.BatchRateLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.IsProduction)
}

func TestLoadConfig_InvalidBatchLimitFallsBack(t *testing.T) {
	t.Setenv("BATCH_MAX_ITEMS", "0")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 500, cfg.BatchMaxItems)
	assert.NotEmpty(t, cfg.JWTSecret)
}
