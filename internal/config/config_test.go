package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost:5432/drains")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, int64(5_000_000), cfg.MaxBodyBytes)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IngestionEnabled())
}

func TestLoadRequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveBatchSize(t *testing.T) {
	setRequired(t)
	t.Setenv("DRAIN_BATCH_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveBodyCap(t *testing.T) {
	setRequired(t)
	t.Setenv("DRAIN_MAX_BODY_BYTES", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestIngestionEnabled(t *testing.T) {
	setRequired(t)

	t.Setenv("APP_ENV", "production")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IngestionEnabled())

	t.Setenv("APP_ENV", "staging")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.IngestionEnabled())

	t.Setenv("DRAINS_ENABLED", "true")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.IngestionEnabled(), "explicit override beats environment")
}

func TestLoadDrainSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("DRAIN_METRICS_SECRET", "m-secret")
	t.Setenv("DRAIN_TRACES_SECRET", "t-secret")
	t.Setenv("DRAIN_AUTH_TOKEN", "tok")
	t.Setenv("DRAIN_MAX_BODY_BYTES", "1024")
	t.Setenv("DRAIN_BATCH_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "m-secret", cfg.MetricsSecret)
	assert.Equal(t, "t-secret", cfg.TracesSecret)
	assert.Equal(t, "tok", cfg.DrainToken)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, 50, cfg.BatchSize)
}
