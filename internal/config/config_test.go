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
	for _, k := range []string{"ZONEPLANNER_PORT", "ZONEPLANNER_LOG_LEVEL", "ZONEPLANNER_LOG_FORMAT", "ZONEPLANNER_PROJECT", "ZONEPLANNER_CORS_ORIGINS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tint", cfg.LogFormat)
	assert.Equal(t, ".", cfg.ProjectDir)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadCORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZONEPLANNER_CORS_ORIGINS", "http://localhost:5173, https://maps.raleighnc.gov,,")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://maps.raleighnc.gov"}, cfg.CORSOrigins)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ZONEPLANNER_PORT=8088\nZONEPLANNER_LOG_FORMAT=json\n"), 0o644))
	t.Setenv("ZONEPLANNER_LOG_FORMAT", "text")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.Port)
	// Variables already set win over the file.
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZONEPLANNER_PORT", "http")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("ZONEPLANNER_PORT", "70000")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
