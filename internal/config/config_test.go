package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.TelemetryEnabled)
	assert.True(t, cfg.MaxMagnitude.Equal(decimal.New(1, 15)))
	assert.Equal(t, 600, cfg.RateLimit)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("TAX_MAX_MAGNITUDE", "1000.5")
	t.Setenv("TAX_RATE_LIMIT", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "1000.5", cfg.MaxMagnitude.String())
	assert.Zero(t, cfg.RateLimit)
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("TAX_MAX_MAGNITUDE", "-1")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TAX_MAX_MAGNITUDE", "10")
	t.Setenv("TAX_RATE_LIMIT", "-5")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TAXSVC_FROM_FILE=file\nTAXSVC_PRESET=file\n"), 0o600))

	t.Setenv("TAXSVC_PRESET", "env")
	t.Setenv("TAXSVC_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("TAXSVC_FROM_FILE"))

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "file", os.Getenv("TAXSVC_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("TAXSVC_PRESET"))
}

func TestLoadDotEnvMissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadTraceSampleRatio(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.TraceSampleRatio)

	t.Setenv("TRACE_SAMPLE_RATIO", "0.25")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.TraceSampleRatio)

	t.Setenv("TRACE_SAMPLE_RATIO", "1.5")
	_, err = Load()
	assert.Error(t, err)
}
