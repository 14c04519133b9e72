package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/perigee/internal/config"
	"github.com/papapumpkin/perigee/internal/graph"
	"github.com/papapumpkin/perigee/internal/manifest"
	"github.com/papapumpkin/perigee/internal/slack"
	"github.com/papapumpkin/perigee/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "perigee",
	Short: "Schedule conformance analyzer",
	Long: "Perigee reads a fixed schedule of tasks with actual dates and computes\n" +
		"how much slack each task has against the requirements its dependencies impose.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .perigee.yaml)")
	rootCmd.PersistentFlags().StringP("manifest", "m", manifest.DefaultFile, "schedule manifest file")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".perigee")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PERIGEE")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadSchedule loads the config, manifest, and dependency graph shared by
// the analysis commands.
func loadSchedule(cmd *cobra.Command) (config.Config, *manifest.Manifest, *graph.Graph, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	path, _ := cmd.Flags().GetString("manifest")
	m, err := manifest.Load(path)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	snap, err := m.Snapshot()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, m, graph.Build(snap), nil
}

// analysisOptions resolves the classification thresholds: config defaults,
// then manifest [project] overrides, then explicit flags.
func analysisOptions(cmd *cobra.Command, cfg config.Config, m *manifest.Manifest) slack.Options {
	opts := cfg.Options()
	if m.Project.FloatTolerance != nil {
		opts.Tolerance = *m.Project.FloatTolerance
	}
	if m.Project.FloatThreshold != nil {
		opts.Threshold = *m.Project.FloatThreshold
	}
	if cmd.Flags().Changed("tolerance") {
		opts.Tolerance, _ = cmd.Flags().GetFloat64("tolerance")
	}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	return opts
}

// useColor reports whether output should be colored.
func useColor(cmd *cobra.Command, cfg config.Config) bool {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		return false
	}
	return cfg.Color
}

// newEmitter opens the telemetry emitter, or returns a nil no-op emitter
// when no log path is configured.
func newEmitter(cfg config.Config) (*telemetry.Emitter, error) {
	if cfg.TelemetryLog == "" {
		return nil, nil
	}
	return telemetry.NewEmitter(cfg.TelemetryLog)
}
