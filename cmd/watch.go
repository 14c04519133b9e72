package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/perigee/internal/config"
	"github.com/papapumpkin/perigee/internal/graph"
	"github.com/papapumpkin/perigee/internal/manifest"
	"github.com/papapumpkin/perigee/internal/report"
	"github.com/papapumpkin/perigee/internal/slack"
	"github.com/papapumpkin/perigee/internal/telemetry"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis whenever the manifest changes",
	Long: `Watches the schedule manifest and re-runs the full analysis on every
settled change. Cyclic or invalid schedules are reported without stopping
the watch. Exit with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Float64("tolerance", slack.DefaultTolerance, "near-zero float band in days (ε)")
	watchCmd.Flags().Float64("threshold", slack.DefaultThreshold, "near-critical float band in days (τ)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	manifestPath, _ := cmd.Flags().GetString("manifest")
	r := report.New(cmd.OutOrStdout(), useColor(cmd, cfg))

	em, err := newEmitter(cfg)
	if err != nil {
		return err
	}
	defer em.Close()

	w, err := manifest.NewWatcher(manifestPath)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial run, then one run per settled change.
	watchPass(cmd, cfg, r, manifestPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Changes:
			if !ok {
				return nil
			}
			em.Emit(telemetry.Event{
				Timestamp: time.Now(), Kind: telemetry.KindWatchReload,
				Data: map[string]string{"path": path},
			})
			fmt.Fprintf(cmd.OutOrStdout(), "\n— reloaded %s —\n", path)
			watchPass(cmd, cfg, r, manifestPath)
		}
	}
}

// watchPass runs one analysis pass, reporting problems instead of failing.
func watchPass(cmd *cobra.Command, cfg config.Config, r *report.Renderer, path string) {
	m, err := manifest.Load(path)
	if err != nil {
		r.Error(err.Error())
		return
	}
	snap, err := m.Snapshot()
	if err != nil {
		r.Error(err.Error())
		return
	}
	g := graph.Build(snap)
	opts := analysisOptions(cmd, cfg, m)

	res, err := slack.Analyze(g, opts)
	if err != nil {
		var cycErr *graph.CycleError
		if errors.As(err, &cycErr) {
			r.Cycles(cycErr.Report)
			return
		}
		r.Error(err.Error())
		return
	}

	r.Summary(m.Project.Name, res, opts)
	r.TaskTable(g, res)
	r.Relationships(res)
}
