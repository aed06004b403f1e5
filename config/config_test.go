package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "hookline", cfg.Database.DBName)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.True(t, cfg.Redis.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 5, cfg.Delivery.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Delivery.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Delivery.RetryBase)
	assert.Equal(t, 900*time.Second, cfg.Delivery.RetryCap)
	assert.Equal(t, 4, cfg.Delivery.Concurrency)
	assert.Equal(t, 72, cfg.Retention.AttemptLogHours)
	assert.Equal(t, 24*time.Hour, cfg.Retention.SweepInterval)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WEBHOOK_MAX_RETRIES", "2")
	t.Setenv("WEBHOOK_RETRY_BASE_SECONDS", "1")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("SUBSCRIPTION_CACHE_ENABLED", "false")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Delivery.MaxRetries)
	assert.Equal(t, time.Second, cfg.Delivery.RetryBase)
	assert.Equal(t, 8, cfg.Delivery.Concurrency)
	assert.False(t, cfg.Redis.CacheEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadRejectsInvalidKnobs(t *testing.T) {
	t.Run("negative max retries", func(t *testing.T) {
		t.Setenv("WEBHOOK_MAX_RETRIES", "-1")
		_, err := LoadWithOptions(LoadOptions{})
		assert.Error(t, err)
	})

	t.Run("zero delivery timeout", func(t *testing.T) {
		t.Setenv("WEBHOOK_DELIVERY_TIMEOUT_SECONDS", "0")
		_, err := LoadWithOptions(LoadOptions{})
		assert.Error(t, err)
	})

	t.Run("zero worker concurrency", func(t *testing.T) {
		t.Setenv("WORKER_CONCURRENCY", "0")
		_, err := LoadWithOptions(LoadOptions{})
		assert.Error(t, err)
	})
}
