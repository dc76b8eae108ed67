package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromPathDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 60, cfg.TokenTTLMinutes)
	assert.Equal(t, 60*time.Minute, cfg.TokenTTL())
	assert.True(t, cfg.RateLimitPublic.Enabled)

	// Missing secrets are generated so the server can still boot.
	assert.NotEmpty(t, cfg.AdminSecret)
	assert.NotEmpty(t, cfg.TokenSecret)
	assert.NotEqual(t, cfg.AdminSecret, cfg.TokenSecret)
}

func TestLoadFromPathFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "9090"
debug: true
database_url: "postgres://localhost/aegis"
admin_secret: "file-admin-secret"
token_secret: "file-token-secret"
token_ttl_minutes: 30
trusted_proxies:
  - "10.0.0.1"
rate_limit_public:
  requests_per_second: 2
  burst: 4
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "postgres://localhost/aegis", cfg.DatabaseURL)
	assert.Equal(t, "file-admin-secret", cfg.AdminSecret)
	assert.Equal(t, "file-token-secret", cfg.TokenSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, []string{"10.0.0.1"}, cfg.TrustedProxies)
	assert.Equal(t, float64(2), cfg.RateLimitPublic.RequestsPerSecond)
}

func TestLoadFromPathMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a string"), 0o644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "9090"
admin_secret: "file-admin-secret"
token_secret: "file-token-secret"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://env-host/aegis")
	t.Setenv("ADMIN_SECRET", "env-admin-secret")
	t.Setenv("TOKEN_SECRET", "env-token-secret")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "postgres://env-host/aegis", cfg.DatabaseURL)
	assert.Equal(t, "env-admin-secret", cfg.AdminSecret)
	assert.Equal(t, "env-token-secret", cfg.TokenSecret)
}

func TestTokenTTLFallback(t *testing.T) {
	cfg := Config{TokenTTLMinutes: 0}
	assert.Equal(t, 60*time.Minute, cfg.TokenTTL())

	cfg.TokenTTLMinutes = -5
	assert.Equal(t, 60*time.Minute, cfg.TokenTTL())

	cfg.TokenTTLMinutes = 15
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL())
}
