package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/perigee/internal/config"
	"github.com/papapumpkin/perigee/internal/graph"
	"github.com/papapumpkin/perigee/internal/history"
	"github.com/papapumpkin/perigee/internal/report"
	"github.com/papapumpkin/perigee/internal/slack"
	"github.com/papapumpkin/perigee/internal/telemetry"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute float and criticality for the whole schedule",
	Long: `Reads the schedule manifest, computes each task's total float against the
requirements its dependency relationships impose, and classifies tasks as
critical, near-critical, or in violation. Refuses cyclic schedules.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Float64("tolerance", slack.DefaultTolerance, "near-zero float band in days (ε)")
	analyzeCmd.Flags().Float64("threshold", slack.DefaultThreshold, "near-critical float band in days (τ)")
	analyzeCmd.Flags().Bool("no-save", false, "skip archiving the run to the history database")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, m, g, err := loadSchedule(cmd)
	if err != nil {
		return err
	}
	opts := analysisOptions(cmd, cfg, m)
	r := report.New(cmd.OutOrStdout(), useColor(cmd, cfg))
	manifestPath, _ := cmd.Flags().GetString("manifest")
	noSave, _ := cmd.Flags().GetBool("no-save")

	em, err := newEmitter(cfg)
	if err != nil {
		return err
	}
	defer em.Close()

	em.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindRunStart,
		Project: m.Project.Name,
		Data:    map[string]any{"tolerance": opts.Tolerance, "threshold": opts.Threshold},
	})

	res, err := slack.Analyze(g, opts)
	if err != nil {
		var cycErr *graph.CycleError
		if errors.As(err, &cycErr) {
			r.Cycles(cycErr.Report)
			em.Emit(telemetry.Event{
				Timestamp: time.Now(), Kind: telemetry.KindCycleDetected,
				Project: m.Project.Name,
				Data:    map[string]any{"tasks": cycErr.Report.CyclicTaskIDs},
			})
			if !noSave {
				if err := archiveRefusal(cmd.Context(), cfg, m.Project.Name, manifestPath, opts, cycErr.Report, em); err != nil {
					fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				}
			}
			return errors.New("schedule contains dependency cycles")
		}
		return err
	}

	r.Summary(m.Project.Name, res, opts)
	r.TaskTable(g, res)
	r.Relationships(res)

	em.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindRunDone,
		Project: m.Project.Name,
	})

	if !noSave {
		if err := archiveRun(cmd.Context(), cfg, m.Project.Name, manifestPath, opts, res, em); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	return nil
}

func archiveRun(ctx context.Context, cfg config.Config, project, manifestPath string, opts slack.Options, res *slack.Result, em *telemetry.Emitter) error {
	store, err := history.Open(ctx, cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.SaveRun(ctx, project, manifestPath, opts, res)
	if err != nil {
		return err
	}
	em.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindHistorySaved,
		Project: project,
		Data:    map[string]any{"run_id": runID},
	})
	return nil
}

func archiveRefusal(ctx context.Context, cfg config.Config, project, manifestPath string, opts slack.Options, rep graph.CycleReport, em *telemetry.Emitter) error {
	store, err := history.Open(ctx, cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.SaveRefusal(ctx, project, manifestPath, opts, rep)
	if err != nil {
		return err
	}
	em.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindHistorySaved,
		Project: project,
		Data:    map[string]any{"run_id": runID, "cycles": true},
	})
	return nil
}
