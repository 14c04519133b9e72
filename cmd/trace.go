package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/perigee/internal/report"
	"github.com/papapumpkin/perigee/internal/slack"
	"github.com/papapumpkin/perigee/internal/telemetry"
)

var traceCmd = &cobra.Command{
	Use:   "trace TASK_ID",
	Short: "Analyze the dependency closure of a single task",
	Long: `Selects a task and restricts the analysis to its ancestor or descendant
closure. Tasks outside the closure are reported as out of scope, and
relationships crossing the boundary impose no requirements. The selected
task is always marked critical. Scoped runs tolerate cycles.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().StringP("direction", "d", "ancestors", "closure direction: ancestors (up) or descendants (down)")
	traceCmd.Flags().Float64("tolerance", slack.DefaultTolerance, "near-zero float band in days (ε)")
	traceCmd.Flags().Float64("threshold", slack.DefaultThreshold, "near-critical float band in days (τ)")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	seedID := args[0]

	dirStr, _ := cmd.Flags().GetString("direction")
	dir, err := slack.ParseDirection(dirStr)
	if err != nil {
		return err
	}

	cfg, m, g, err := loadSchedule(cmd)
	if err != nil {
		return err
	}
	opts := analysisOptions(cmd, cfg, m)
	r := report.New(cmd.OutOrStdout(), useColor(cmd, cfg))

	em, err := newEmitter(cfg)
	if err != nil {
		return err
	}
	defer em.Close()

	em.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindScopeStart,
		Project: m.Project.Name, TaskID: seedID,
		Data: map[string]string{"direction": dir.String()},
	})

	res, err := slack.AnalyzeScoped(g, seedID, dir, opts)
	if err != nil {
		return err
	}

	r.Summary(m.Project.Name, res, opts)
	r.TaskTable(g, res)
	r.Relationships(res)

	em.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindScopeDone,
		Project: m.Project.Name, TaskID: seedID,
	})
	return nil
}
