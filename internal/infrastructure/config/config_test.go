package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)

	// LCMP config
	assert.Equal(t, "static;file=application_list.json", cfg.LCMP.AppListType)
	assert.Equal(t, "single;10,URI", cfg.LCMP.AppContextType)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// HTTP config
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.HTTP.MetricsEnabled)
	assert.True(t, cfg.HTTP.RequireJSONContentType)
}

// clearEnv unsets the configuration variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvFileVar, "PORT", "HOST", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT",
		"APP_LIST_TYPE", "APP_CONTEXT_TYPE", "LOG_LEVEL", "LOG_DEV",
		"CORS_ALLOWED_ORIGINS", "METRICS_ENABLED", "REQUIRE_JSON_CONTENT_TYPE",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadMatchesDefault(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	clearEnv(t)
	envVars := map[string]string{
		"PORT":                      "9000",
		"HOST":                      "127.0.0.1",
		"READ_TIMEOUT":              "3s",
		"SHUTDOWN_TIMEOUT":          "1m",
		"APP_LIST_TYPE":             "empty",
		"APP_CONTEXT_TYPE":          "file;mapping.json",
		"LOG_LEVEL":                 "debug",
		"LOG_DEV":                   "true",
		"CORS_ALLOWED_ORIGINS":      "http://a.example,http://b.example",
		"METRICS_ENABLED":           "false",
		"REQUIRE_JSON_CONTENT_TYPE": "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address())
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Minute, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "empty", cfg.LCMP.AppListType)
	assert.Equal(t, "file;mapping.json", cfg.LCMP.AppContextType)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.False(t, cfg.HTTP.MetricsEnabled)
	assert.False(t, cfg.HTTP.RequireJSONContentType)
}

func TestLoadInvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("READ_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lcmp.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_LIST_TYPE=empty\nPORT=7000\n"), 0o644))
	clearEnv(t)
	t.Setenv(EnvFileVar, path)
	// Already set variables are not overridden by the file.
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "empty", cfg.LCMP.AppListType)
	assert.Equal(t, "7100", cfg.Server.Port)
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFileVar, filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	assert.Error(t, err)
}
