package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoadDefaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"FloatTolerance", cfg.FloatTolerance, 0.01},
		{"FloatThreshold", cfg.FloatThreshold, 1.0},
		{"HistoryDB", cfg.HistoryDB, ".perigee/history.db"},
		{"TelemetryLog", cfg.TelemetryLog, ""},
		{"Color", cfg.Color, true},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "float_tolerance",
			envKey: "PERIGEE_FLOAT_TOLERANCE",
			envVal: "0.05",
			field:  func(c Config) any { return c.FloatTolerance },
			want:   0.05,
		},
		{
			name:   "float_threshold",
			envKey: "PERIGEE_FLOAT_THRESHOLD",
			envVal: "3.5",
			field:  func(c Config) any { return c.FloatThreshold },
			want:   3.5,
		},
		{
			name:   "history_db",
			envKey: "PERIGEE_HISTORY_DB",
			envVal: "/tmp/runs.db",
			field:  func(c Config) any { return c.HistoryDB },
			want:   "/tmp/runs.db",
		},
		{
			name:   "color",
			envKey: "PERIGEE_COLOR",
			envVal: "false",
			field:  func(c Config) any { return c.Color },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.SetEnvPrefix("PERIGEE")
			viper.AutomaticEnv()

			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestOptionsMapping(t *testing.T) {
	resetViper()

	cfg := Config{FloatTolerance: 0.02, FloatThreshold: 2.5}
	opts := cfg.Options()
	if opts.Tolerance != 0.02 {
		t.Errorf("Tolerance = %v, want 0.02", opts.Tolerance)
	}
	if opts.Threshold != 2.5 {
		t.Errorf("Threshold = %v, want 2.5", opts.Threshold)
	}
}
