package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
	assert.Equal(t, "postgres://postgres:@localhost:5432/dorm_db?sslmode=disable", cfg.DSN())
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
storage:
  driver: sqlite
  sqlite_path: /tmp/dorm.db
database:
  query_timeout: 2s
jwt:
  secret: from-file
redis:
  addr: cache:6379
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/dorm.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
}

func TestLoadFromRejectsBadInput(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err = LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "unknown storage driver")
}
