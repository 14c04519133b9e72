package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/perigee/internal/slack"
	"github.com/papapumpkin/perigee/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse analysis results interactively",
	Long: `Runs the full analysis and opens an interactive browser over the results:
a scrollable float table with a critical-only filter and a per-task detail
panel.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Float64("tolerance", slack.DefaultTolerance, "near-zero float band in days (ε)")
	tuiCmd.Flags().Float64("threshold", slack.DefaultThreshold, "near-critical float band in days (τ)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, m, g, err := loadSchedule(cmd)
	if err != nil {
		return err
	}
	opts := analysisOptions(cmd, cfg, m)

	res, err := slack.Analyze(g, opts)
	if err != nil {
		return err
	}
	return tui.Run(m.Project.Name, g, res, opts)
}
