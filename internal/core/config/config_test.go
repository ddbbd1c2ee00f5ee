package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequired sets the minimum environment for Load to succeed.
func setRequired(t *testing.T) {
	t.Setenv("SHOPIFY_API_KEY", "key_default")
	t.Setenv("SHOPIFY_API_SECRET", "secret_default")
}

// clearOptional blanks variables that would otherwise leak from the host environment.
func clearOptional(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "SERVER_PORT", "SHOPIFY_API_VERSION", "REDIS_URL",
		"SETTINGS_STORE", "DATABASE_URL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"SHOPIFY_TIMEOUT_SECONDS", "OUTBOUND_PROXY_ENABLED", "TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	clearOptional(t)
	setRequired(t)

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "2025-01", cfg.Shopify.APIVersion)
	assert.Equal(t, 10, cfg.Shopify.TimeoutSeconds)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "redis", cfg.Database.SettingsStore)
	assert.False(t, cfg.UsesPostgres())
	assert.Equal(t, 5, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.False(t, cfg.Proxy.Enabled)
	assert.Empty(t, cfg.TrustedProxyList())
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	clearOptional(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SHOPIFY_API_KEY", "key_123")
	t.Setenv("SHOPIFY_API_SECRET", "secret_123")
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "demo.myshopify.com")
	t.Setenv("SETTINGS_STORE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/wismo")
	t.Setenv("OUTBOUND_PROXY_ENABLED", "true")
	t.Setenv("OUTBOUND_PROXY_PORT", "3128")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1,")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "key_123", cfg.Shopify.APIKey)
	assert.Equal(t, "secret_123", cfg.Shopify.APISecret)
	assert.Equal(t, "demo.myshopify.com", cfg.Shopify.ShopDomain)
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, "postgres://localhost/wismo", cfg.Database.URL)
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, 3128, cfg.Proxy.Port)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxyList())
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	clearOptional(t)
	t.Setenv("SHOPIFY_API_KEY", "")
	t.Setenv("SHOPIFY_API_SECRET", "")

	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
SHOPIFY_API_KEY=key_staging
SHOPIFY_API_SECRET=secret_staging
RATE_LIMIT_RPS=20
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "key_staging", cfg.Shopify.APIKey)
	assert.Equal(t, 20, cfg.RateLimit.RPS)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	clearOptional(t)
	t.Setenv("SHOPIFY_API_KEY", "")
	t.Setenv("SHOPIFY_API_SECRET", "")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}

// TestLoad_PostgresWithoutURL verifies that the postgres store needs a DSN.
func TestLoad_PostgresWithoutURL(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("SETTINGS_STORE", "postgres")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
