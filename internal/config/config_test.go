package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"EVENTS_CONFIG", "EVENTS_PORT", "EVENTS_DB_PATH", "EVENTS_OVERRIDES_PATH", "EVENTS_ENV", "EVENTS_MAX_UPLOAD_MB"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Development())
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes())
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "events.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("port: \"9000\"\ndb_path: /tmp/y.db\nenv: development\nmax_upload_mb: 8\n"), 0o600))
	t.Setenv("EVENTS_CONFIG", yamlPath)
	t.Setenv("EVENTS_DB_PATH", "/tmp/env.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, "data/overrides.db", cfg.OverridesPath)
	assert.True(t, cfg.Development())
	assert.Equal(t, 8, cfg.MaxUploadMB)
}

func TestLoadDotenvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("EVENTS_PORT=7000\nEVENTS_ENV=development\n"), 0o600))
	t.Setenv("EVENTS_ENV", "staging")
	// godotenv only fills variables that are absent, not empty.
	require.NoError(t, os.Unsetenv("EVENTS_PORT"))

	cfg, err := Load(dotenv)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "staging", cfg.Env)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("EVENTS_MAX_UPLOAD_MB", "muito")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("EVENTS_MAX_UPLOAD_MB", "0")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("EVENTS_MAX_UPLOAD_MB", "")
	t.Setenv("EVENTS_PORT", "abc")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("EVENTS_PORT", "")
	t.Setenv("EVENTS_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err = Load()
	assert.Error(t, err)
}
