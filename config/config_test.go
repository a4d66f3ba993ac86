package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3005", cfg.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mongo", cfg.Store.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.Mongo.LocalURI)
	assert.Equal(t, "healthpulse", cfg.Store.Mongo.Database)
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":8080"
log:
  level: debug
store:
  backend: redis
  redis:
    addr: "redis:6379"
    db: 2
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("REDIS_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)
	// File overrides defaults, env overrides file.
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "hunter2", cfg.Store.Redis.Password)
}

func TestLoadMalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [not: valid"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}
