package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so no stray .env is read.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_overrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_invalidPort(t *testing.T) {
	chdirTemp(t)
	for _, port := range []string{"http", "0", "65536", "-1"} {
		t.Setenv("APP_PORT", port)
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidPort, port)
	}
}

func TestLoad_dotEnv(t *testing.T) {
	dir := chdirTemp(t)
	// Setenv registers the restore; the variable must be absent, not empty,
	// for the .env value to apply.
	t.Setenv("APP_ENV", "")
	require.NoError(t, os.Unsetenv("APP_ENV"))
	t.Setenv("APP_PORT", "7070")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_ENV=staging\nAPP_PORT=6060\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Env)
	// Variables already set in the environment are not overridden.
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "yes")
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
}

func TestLoadRateLimitConfig_disabledByDefault(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	assert.False(t, LoadRateLimitConfig().Enabled)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_METHODS", " get, head ,,")
	t.Setenv("CACHE_TTL", "bogus")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "1")

	opts := RedisOptions()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.NotNil(t, opts.TLSConfig)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	assert.Equal(t, "redis:6379", RedisOptions().Addr)
}
