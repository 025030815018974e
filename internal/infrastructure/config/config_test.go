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

	assert.Equal(t, "grifon-eshop-gateway", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Upstream.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Upstream.RetryDelay)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTLCategories, "per-resource TTLs default to the baseline")
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTLProducts)

	require.Len(t, cfg.Shops.Entries, 2)
	assert.Equal(t, int64(4), cfg.Shops.DefaultID)
	assert.Equal(t, "GR", cfg.Shops.Entries[0].Code)
	assert.Equal(t, "https://grifon.se", cfg.Shops.Entries[1].BaseURL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GRIFON_APP_PORT", "9191")
	t.Setenv("GRIFON_UPSTREAM_API_KEY", "WS-KEY")
	t.Setenv("GRIFON_CACHE_BACKEND", "redis")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.App.Port)
	assert.Equal(t, "WS-KEY", cfg.Upstream.APIKey)
	assert.Equal(t, "redis", cfg.Cache.Backend)
}

func TestLoadPerResourceCacheTTL(t *testing.T) {
	t.Setenv("GRIFON_CACHE_TTL_CATEGORIES", "10m")
	t.Setenv("GRIFON_CACHE_TTL_PRODUCTS", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTLCategories)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTLProducts)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL, "baseline stays untouched")
}

func TestUpperKeysNormalizesCountryCodes(t *testing.T) {
	assert.Equal(t, map[string]int64{"SE": 1, "GR": 4}, upperKeys(map[string]int64{"se": 1, "GR": 4}))
	assert.Nil(t, upperKeys(nil))
}

func TestValidateRejectsBadShops(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Shops.DefaultID = 999
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_id")
}

func TestValidateRejectsUnknownCacheBackend(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Cache.Backend = "memcached"
	assert.Error(t, cfg.validate())
}

func TestValidateProductionRequiresAPIKey(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")

	cfg.Upstream.APIKey = "WS-KEY"
	assert.NoError(t, cfg.validate())
}

func TestValidateProductionRejectsWildcardCORS(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.Upstream.APIKey = "WS-KEY"
	cfg.HTTP.CORSAllowOrigins = []string{"*"}
	assert.Error(t, cfg.validate())
}
