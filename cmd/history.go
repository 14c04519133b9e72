package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/perigee/internal/config"
	"github.com/papapumpkin/perigee/internal/history"
	"github.com/papapumpkin/perigee/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived analysis runs",
	Long: `Lists runs archived in the history database, newest first. With --run,
shows the stored per-task results of one run instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int64("run", 0, "show the task results of one run")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	r := report.New(cmd.OutOrStdout(), useColor(cmd, cfg))

	store, err := history.Open(cmd.Context(), cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		results, err := store.TaskResults(cmd.Context(), runID)
		if err != nil {
			return err
		}
		r.ArchivedTasks(runID, results)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	r.Runs(runs)
	return nil
}
