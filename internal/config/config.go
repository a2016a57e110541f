// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Watch    WatchConfig    `mapstructure:"watch" yaml:"watch"`
}

// LoggerConfig configures the zap logger and the lumberjack file rotation.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// AnalysisConfig configures report presentation. The engine's heuristic
// thresholds (correlation window, voltage bands, bucket thresholds) are
// deliberately NOT here: they encode domain calibration, not deployment
// variation, and live as named constants next to the patterns.
type AnalysisConfig struct {
	// MaxReportItems caps rows per report section.
	MaxReportItems int `mapstructure:"max_report_items" yaml:"max_report_items"`
}

// StoreConfig configures the local run-history store.
type StoreConfig struct {
	// Path to the SQLite history database. Empty means the default location
	// under the user home directory.
	Path string `mapstructure:"path" yaml:"path"`
	// Disabled turns off run-history persistence entirely.
	Disabled bool `mapstructure:"disabled" yaml:"disabled"`
}

// WatchConfig configures live log following.
type WatchConfig struct {
	// Debounce is how long to wait after the last new line before
	// re-analyzing the file.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Defaults returns a fully usable configuration for when no config file or
// environment overrides are present.
func Defaults() Config {
	return Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "udscope",
			MaxSize:     20,
			MaxBackups:  3,
			MaxAge:      14,
		},
		Analysis: AnalysisConfig{MaxReportItems: 10},
		Watch:    WatchConfig{Debounce: 2 * time.Second},
	}
}

// Load unmarshals the viper state into a Config, applying defaults for
// anything unset.
func Load(v *viper.Viper) (Config, error) {
	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return Defaults(), fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Analysis.MaxReportItems <= 0 {
		cfg.Analysis.MaxReportItems = 10
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 2 * time.Second
	}
	return cfg, nil
}

// HistoryPath resolves the run-history database location, defaulting to
// ~/.udscope/history.db.
func (c StoreConfig) HistoryPath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".udscope", "history.db"), nil
}
