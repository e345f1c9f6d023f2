package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerSettings_Defaults(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")

	settings, err := LoadServerSettings(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerSettings(), settings)
}

func TestLoadServerSettings_FromEnvFile(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvLogLevel, "warn")
	// godotenv never overrides variables that exist, even empty ones
	os.Unsetenv(EnvAddr)
	os.Unsetenv(EnvLogFormat)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FINPLAN_ADDR=:9090\nFINPLAN_LOG_LEVEL=debug\nFINPLAN_LOG_FORMAT=console\n"), 0o644))

	settings, err := LoadServerSettings(envFile)
	require.NoError(t, err)
	assert.Equal(t, ":9090", settings.Addr)
	assert.Equal(t, "warn", settings.LogLevel, "process environment wins")
	assert.Equal(t, "console", settings.LogFormat)
}
