package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/moodly-backend/internal/data/db"
	"github.com/yungbote/moodly-backend/internal/http/middleware"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		configPathEnv, "PORT", "DB_DRIVER", "SQLITE_PATH", "JWT_SECRET_KEY", "ACCESS_TOKEN_TTL",
		"REDIS_ADDR", "OPENAI_API_KEY", "DEFAULT_TIMEZONE", "CORS_ALLOW_ORIGINS", "OTEL_ENABLED",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, db.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, time.UTC, cfg.DefaultLocation)
	assert.Equal(t, middleware.DefaultAllowOrigins, cfg.CORSAllowOrigins)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.False(t, cfg.Otel.Enabled)
	assert.InDelta(t, 1.0, cfg.Otel.SampleRatio, 1e-9)
}

func TestLoadConfigFileOverlay(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "moodly.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
DB_DRIVER: sqlite
SQLITE_PATH: /tmp/moodly-test.db
ACCESS_TOKEN_TTL: 120
DEFAULT_TIMEZONE: Europe/Paris
CORS_ALLOW_ORIGINS:
  - https://moodly.example
  - https://staging.moodly.example
OTEL_ENABLED: true
`), 0o600))
	t.Setenv(configPathEnv, path)
	// Environment wins over the file.
	t.Setenv("PORT", "7000")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/moodly-test.db", cfg.DB.SQLitePath)
	assert.Equal(t, 2*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "Europe/Paris", cfg.DefaultLocation.String())
	assert.Equal(t, []string{"https://moodly.example", "https://staging.moodly.example"}, cfg.CORSAllowOrigins)
	assert.True(t, cfg.Otel.Enabled)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("unknown time zone", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("DEFAULT_TIMEZONE", "Nowhere/Special")
		_, err := LoadConfig(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DEFAULT_TIMEZONE")
	})
	t.Run("missing file", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := LoadConfig(nil)
		require.Error(t, err)
	})
	t.Run("nested key", func(t *testing.T) {
		clearConfigEnv(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("OTEL:\n  ENABLED: true\n"), 0o600))
		t.Setenv(configPathEnv, path)
		_, err := LoadConfig(nil)
		require.Error(t, err)
	})
}
