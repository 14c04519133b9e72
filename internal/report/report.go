// Package report renders analysis results for the terminal: a summary
// banner, a per-task float table, critical relationships, cycle diagnostics,
// and archived run listings.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/perigee/internal/graph"
	"github.com/papapumpkin/perigee/internal/history"
	"github.com/papapumpkin/perigee/internal/slack"
)

// Renderer writes human-readable analysis output.
type Renderer struct {
	w  io.Writer
	st styles
}

// New returns a Renderer writing to w. When color is false all output is
// plain text.
func New(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, st: newStyles(color)}
}

// Summary prints the run banner: project name, thresholds, and counts.
func (r *Renderer) Summary(project string, res *slack.Result, opts slack.Options) {
	critical, near, violating := res.Counts()

	title := project
	if title == "" {
		title = "schedule"
	}
	if res.SeedID != "" {
		title += fmt.Sprintf(" (trace from %s)", res.SeedID)
	}

	lines := []string{
		r.st.header.Render(title),
		fmt.Sprintf("tasks: %d   tolerance: %g   threshold: %g", len(res.Order), opts.Tolerance, opts.Threshold),
		fmt.Sprintf("%s  %s  %s",
			r.st.critical.Render(fmt.Sprintf("critical: %d", critical)),
			r.st.near.Render(fmt.Sprintf("near-critical: %d", near)),
			r.st.violates.Render(fmt.Sprintf("violations: %d", violating))),
	}
	fmt.Fprintln(r.w, r.st.banner.Render(strings.Join(lines, "\n")))
}

// TaskTable prints one row per in-scope task in processing order.
func (r *Renderer) TaskTable(g *graph.Graph, res *slack.Result) {
	fmt.Fprintln(r.w, r.st.header.Render(fmt.Sprintf("  %-20s %-24s %10s %10s  %s",
		"task", "name", "start", "float", "status")))

	for _, id := range res.Order {
		tr := res.Tasks[id]
		task, ok := g.Task(id)
		if !ok {
			continue
		}
		name := task.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}

		row := fmt.Sprintf("  %-20s %-24s %10.2f %10s  %s",
			tr.ID, name, task.Start, fmtFloat(tr.TotalFloat), flags(tr))
		fmt.Fprintln(r.w, r.rowStyle(tr).Render(row))
	}
}

// Relationships prints the critical relationships, if any.
func (r *Renderer) Relationships(res *slack.Result) {
	var critical []slack.RelationshipResult
	for _, rr := range res.Relationships {
		if rr.Critical {
			critical = append(critical, rr)
		}
	}
	if len(critical) == 0 {
		return
	}

	fmt.Fprintln(r.w, r.st.header.Render("critical relationships:"))
	for _, rr := range critical {
		fmt.Fprintf(r.w, "  %s\n", r.st.critical.Render(rr.PredecessorID+" → "+rr.SuccessorID))
	}
}

// Cycles prints the refusal diagnostics for a cyclic schedule.
func (r *Renderer) Cycles(report graph.CycleReport) {
	fmt.Fprintln(r.w, r.st.violates.Render(
		fmt.Sprintf("✗ dependency cycles detected — %d task(s) involved", len(report.CyclicTaskIDs))))
	for _, desc := range report.Descriptions {
		fmt.Fprintf(r.w, "  %s\n", r.st.critical.Render(desc))
	}
	fmt.Fprintln(r.w, r.st.dim.Render("fix the cyclic relationships and re-run, or trace a scope with `perigee trace`"))
}

// Runs prints archived run summaries, newest first.
func (r *Renderer) Runs(runs []history.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(r.w, r.st.dim.Render("no archived runs"))
		return
	}

	fmt.Fprintln(r.w, r.st.header.Render(fmt.Sprintf("  %-5s %-20s %-16s %6s %9s %6s %11s",
		"run", "created", "project", "tasks", "critical", "near", "violations")))
	for _, run := range runs {
		row := fmt.Sprintf("  %-5d %-20s %-16s %6d %9d %6d %11d",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Project,
			run.TaskCount, run.CriticalCount, run.NearCount, run.ViolationCount)
		if run.HasCycles {
			row += "  " + r.st.violates.Render("cycles")
		}
		fmt.Fprintln(r.w, row)
	}
}

// ArchivedTasks prints the stored task rows of one archived run.
func (r *Renderer) ArchivedTasks(runID int64, results []slack.TaskResult) {
	fmt.Fprintln(r.w, r.st.header.Render(fmt.Sprintf("run %d:", runID)))
	fmt.Fprintln(r.w, r.st.header.Render(fmt.Sprintf("  %-20s %10s %10s  %s",
		"task", "float", "late", "status")))
	for i := range results {
		tr := &results[i]
		row := fmt.Sprintf("  %-20s %10s %10s  %s",
			tr.ID, fmtFloat(tr.TotalFloat), fmtFloat(tr.LateFinish), flags(tr))
		fmt.Fprintln(r.w, r.rowStyle(tr).Render(row))
	}
}

// Error prints a one-line error message.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.w, r.st.violates.Render("error: ")+msg)
}

func (r *Renderer) rowStyle(tr *slack.TaskResult) lipgloss.Style {
	switch {
	case tr.ViolatesConstraints:
		return r.st.violates
	case tr.Critical:
		return r.st.critical
	case tr.NearCritical:
		return r.st.near
	case math.IsInf(tr.TotalFloat, 1):
		return r.st.dim
	default:
		return r.st.ok
	}
}

// flags summarizes a task's classification as a short status word list.
func flags(tr *slack.TaskResult) string {
	var parts []string
	if tr.ViolatesConstraints {
		parts = append(parts, "violates")
	}
	if tr.Critical {
		parts = append(parts, "critical")
	}
	if tr.NearCritical {
		parts = append(parts, "near-critical")
	}
	if math.IsInf(tr.TotalFloat, 1) {
		parts = append(parts, "undetermined")
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, " ")
}

// fmtFloat formats a float value, rendering undetermined (+Inf) as "∞".
func fmtFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", v)
}
