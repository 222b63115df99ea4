package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Auth.LoginMaxAttempts)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigFrom_YAMLKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
database:
  driver: mysql
jwt:
  expireTime: 30m
`), 0o600)
	require.NoError(t, err)

	cfg := LoadConfigFrom(path)

	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.JWT.ExpireTime)
	assert.Equal(t, "social-system", cfg.JWT.Issuer)
	assert.Equal(t, "utf8mb4", cfg.Database.Charset)
}

func TestLoadConfigFrom_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9000\"\n"), 0o600))

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("AUTH_LOGIN_WINDOW", "1m")
	t.Setenv("REDIS_DB", "0")

	cfg := LoadConfigFrom(path)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Minute, cfg.Auth.LoginWindow)
	assert.Equal(t, 0, cfg.Redis.DB)
}
