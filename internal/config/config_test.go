package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/flexform/internal/config"
)

func TestReadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"FLEXFORM_DB_PATH", "FLEXFORM_LOG_LEVEL", "FLEXFORM_LANG", "FLEXFORM_STRICT_ENVELOPE", "FLEXFORM_MAX_PATCH_DEPTH"} {
		t.Setenv(k, "")
	}
	cfg := config.ReadConfig()
	assert.Equal(t, config.DefaultDBPath, cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "en", cfg.Lang)
	assert.False(t, cfg.StrictEnvelope)
	assert.Equal(t, 0, cfg.MaxPatchDepth)
}

func TestReadConfig_FromEnv(t *testing.T) {
	t.Setenv("FLEXFORM_DB_PATH", "/tmp/x.db")
	t.Setenv("FLEXFORM_LOG_LEVEL", "debug")
	t.Setenv("FLEXFORM_LANG", "JA")
	t.Setenv("FLEXFORM_STRICT_ENVELOPE", "true")
	t.Setenv("FLEXFORM_MAX_PATCH_DEPTH", "8")
	cfg := config.ReadConfig()
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "ja", cfg.Lang)
	assert.True(t, cfg.StrictEnvelope)
	assert.Equal(t, 8, cfg.MaxPatchDepth)
}

func TestReadConfig_Malformed(t *testing.T) {
	t.Setenv("FLEXFORM_LOG_LEVEL", "loud")
	t.Setenv("FLEXFORM_STRICT_ENVELOPE", "maybe")
	t.Setenv("FLEXFORM_MAX_PATCH_DEPTH", "many")
	cfg := config.ReadConfig()
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.StrictEnvelope)
	assert.Equal(t, 0, cfg.MaxPatchDepth)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("FLEXFORM_DB_PATH=from-file.db\nFLEXFORM_LANG=ja\n"), 0o600))

	t.Setenv("FLEXFORM_DB_PATH", "")
	t.Setenv("FLEXFORM_LANG", "en")
	require.NoError(t, os.Unsetenv("FLEXFORM_DB_PATH"))

	require.NoError(t, config.LoadDotEnv(env))
	cfg := config.ReadConfig()
	assert.Equal(t, "from-file.db", cfg.DBPath)
	// already set variables win
	assert.Equal(t, "en", cfg.Lang)

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env")))
}
