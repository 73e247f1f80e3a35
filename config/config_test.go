package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "ORD", cfg.Orders.NumberPrefix)
	assert.Equal(t, SequenceStore, cfg.Orders.Sequence)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8081
storage:
  driver: mysql
mysql:
  host: db.internal
  database: kitchen
redis:
  enabled: true
  cache_ttl: 1m
orders:
  sequence: redis
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Storage.Driver)
	assert.Equal(t, "db.internal", cfg.MySQL.Host)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, SequenceRedis, cfg.Orders.Sequence)
	assert.Contains(t, cfg.MySQL.DSN(), "@tcp(db.internal:3306)/kitchen?")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load("")
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestValidateRedisSequenceNeedsRedis(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 5000},
		Storage: StorageConfig{Driver: DriverSQLite},
		Orders:  OrdersConfig{Sequence: SequenceRedis},
	}
	assert.ErrorContains(t, cfg.Validate(), "redis is not enabled")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
