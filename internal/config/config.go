package config

import (
	"github.com/spf13/viper"

	"github.com/papapumpkin/perigee/internal/slack"
)

// Config holds all runtime configuration for a perigee invocation.
// Values are populated from .perigee.yaml, PERIGEE_* env vars, and CLI flags.
type Config struct {
	FloatTolerance float64 `mapstructure:"float_tolerance"`
	FloatThreshold float64 `mapstructure:"float_threshold"`
	HistoryDB      string  `mapstructure:"history_db"`
	TelemetryLog   string  `mapstructure:"telemetry_log"`
	Color          bool    `mapstructure:"color"`
	Verbose        bool    `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("float_tolerance", slack.DefaultTolerance)
	viper.SetDefault("float_threshold", slack.DefaultThreshold)
	viper.SetDefault("history_db", ".perigee/history.db")
	viper.SetDefault("telemetry_log", "")
	viper.SetDefault("color", true)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options returns the analysis thresholds from this configuration.
func (c Config) Options() slack.Options {
	return slack.Options{
		Tolerance: c.FloatTolerance,
		Threshold: c.FloatThreshold,
	}
}
