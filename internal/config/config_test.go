package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "udscope", cfg.Logger.ServiceName)
	assert.Equal(t, 10, cfg.Analysis.MaxReportItems)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.False(t, cfg.Store.Disabled)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("logger.level", "debug")
	v.Set("analysis.max_report_items", 25)
	v.Set("store.disabled", true)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 25, cfg.Analysis.MaxReportItems)
	assert.True(t, cfg.Store.Disabled)
	// Untouched keys keep their defaults.
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_ClampsNonPositiveValues(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("analysis.max_report_items", -1)
	v.Set("watch.debounce", "0s")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Analysis.MaxReportItems)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestHistoryPath_ExplicitWins(t *testing.T) {
	t.Parallel()

	path, err := StoreConfig{Path: "/tmp/custom.db"}.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", path)
}

func TestHistoryPath_DefaultUnderHome(t *testing.T) {
	t.Parallel()

	path, err := StoreConfig{}.HistoryPath()
	require.NoError(t, err)
	assert.Contains(t, path, ".udscope")
	assert.Contains(t, path, "history.db")
}
