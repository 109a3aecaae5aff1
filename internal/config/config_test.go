package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "HTTP_ADDR", "APP_ENV", "MONGO_DB", "PROVIDER_COLLECTION", "REVIEW_COLLECTION",
		"API_ALLOWED_ORIGINS", "REQUEST_TIMEOUT", "DISCOVERY_MAX_PAGE_SIZE",
		"DISCOVERY_AGGREGATION_CONCURRENCY", "AUTH_SECONDARY_JWT_SECRET", "AUTH_JWT_ISSUER",
		"MESSENGER_GATEWAY_URL")
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "local", cfg.Env)
	assert.False(t, cfg.Production())
	assert.Equal(t, "service-hub", cfg.MongoDatabase)
	assert.Equal(t, "providers", cfg.Collections.Providers)
	assert.Equal(t, "reviews", cfg.Collections.Reviews)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 100, cfg.DiscoveryMaxPageSize)
	assert.Equal(t, 8, cfg.AggregationConcurrency)
	assert.Empty(t, cfg.MessengerEndpoint)
	require.Len(t, cfg.JWTConfigs, 1)
	assert.Equal(t, "service-hub-auth", cfg.JWTConfigs[0].Issuer)
	assert.Equal(t, []byte("secret"), cfg.JWTConfigs[0].Secret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "primary")
	t.Setenv("AUTH_JWT_ISSUER", "hub")
	t.Setenv("AUTH_SECONDARY_JWT_SECRET", "secondary")
	t.Setenv("AUTH_SECONDARY_JWT_ISSUER", "partner")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("API_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("REQUEST_TIMEOUT", "750ms")
	t.Setenv("DISCOVERY_AGGREGATION_CONCURRENCY", "3")
	t.Setenv("MESSENGER_GATEWAY_URL", "http://gateway:3000/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.AggregationConcurrency)
	assert.Equal(t, "http://gateway:3000", cfg.MessengerEndpoint)
	require.Len(t, cfg.JWTConfigs, 2)
	assert.Equal(t, "hub", cfg.JWTConfigs[0].Issuer)
	assert.Equal(t, "partner", cfg.JWTConfigs[1].Issuer)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	t.Run("duration", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "soon")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
	})

	t.Run("concurrency", func(t *testing.T) {
		t.Setenv("DISCOVERY_AGGREGATION_CONCURRENCY", "0")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DISCOVERY_AGGREGATION_CONCURRENCY")
	})
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	unsetEnv(t, "AUTH_JWT_SECRET", "AUTH_SECONDARY_JWT_SECRET")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadReadsEnvFile(t *testing.T) {
	unsetEnv(t, "AUTH_JWT_SECRET", "AUTH_SECONDARY_JWT_SECRET", "MONGO_DB")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_JWT_SECRET=from-file\nMONGO_DB=hub_test\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("AUTH_JWT_SECRET")
		os.Unsetenv("MONGO_DB")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hub_test", cfg.MongoDatabase)
	assert.Equal(t, []byte("from-file"), cfg.JWTConfigs[0].Secret)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}
