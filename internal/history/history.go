// Package history archives analysis runs in a local SQLite database so past
// float and criticality results can be listed and inspected after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/perigee/internal/graph"
	"github.com/papapumpkin/perigee/internal/slack"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    project         TEXT NOT NULL DEFAULT '',
    manifest        TEXT NOT NULL DEFAULT '',
    tolerance       REAL NOT NULL,
    threshold       REAL NOT NULL,
    task_count      INTEGER NOT NULL DEFAULT 0,
    critical_count  INTEGER NOT NULL DEFAULT 0,
    near_count      INTEGER NOT NULL DEFAULT 0,
    violation_count INTEGER NOT NULL DEFAULT 0,
    has_cycles      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS task_results (
    run_id          INTEGER NOT NULL REFERENCES runs(id),
    task_id         TEXT NOT NULL,
    early_start     REAL,
    early_finish    REAL,
    late_start      REAL,
    late_finish     REAL,
    total_float     REAL,
    violates        INTEGER NOT NULL DEFAULT 0,
    critical        INTEGER NOT NULL DEFAULT 0,
    near_critical   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, task_id)
);
`

// Store is a WAL-mode SQLite archive of analysis runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the archive at dbPath, enables WAL mode and a
// busy timeout, and creates the schema if needed. Parent directories are
// created automatically.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer; one
	// connection avoids SQLITE_BUSY contention between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunSummary is one archived run's header row.
type RunSummary struct {
	ID             int64
	CreatedAt      time.Time
	Project        string
	Manifest       string
	Tolerance      float64
	Threshold      float64
	TaskCount      int
	CriticalCount  int
	NearCount      int
	ViolationCount int
	HasCycles      bool
}

// SaveRun archives a completed analysis run and its per-task results,
// returning the new run ID.
func (s *Store) SaveRun(ctx context.Context, project, manifest string, opts slack.Options, res *slack.Result) (int64, error) {
	critical, near, violating := res.Counts()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("history: begin transaction: %w", err)
	}
	defer tx.Rollback()

	out, err := tx.ExecContext(ctx, `
		INSERT INTO runs (project, manifest, tolerance, threshold,
			task_count, critical_count, near_count, violation_count, has_cycles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		project, manifest, opts.Tolerance, opts.Threshold,
		len(res.Tasks), critical, near, violating)
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	runID, err := out.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO task_results (run_id, task_id, early_start, early_finish,
			late_start, late_finish, total_float, violates, critical, near_critical)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("history: prepare task insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range res.Order {
		tr := res.Tasks[id]
		if _, err := stmt.ExecContext(ctx, runID, tr.ID,
			finite(tr.EarlyStart), finite(tr.EarlyFinish),
			finite(tr.LateStart), finite(tr.LateFinish), finite(tr.TotalFloat),
			tr.ViolatesConstraints, tr.Critical, tr.NearCritical); err != nil {
			return 0, fmt.Errorf("history: insert task %s: %w", tr.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("history: commit: %w", err)
	}
	return runID, nil
}

// SaveRefusal archives a run that was refused because of dependency cycles.
// No task rows are written; the run row carries has_cycles = 1.
func (s *Store) SaveRefusal(ctx context.Context, project, manifest string, opts slack.Options, report graph.CycleReport) (int64, error) {
	out, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (project, manifest, tolerance, threshold,
			task_count, critical_count, near_count, violation_count, has_cycles)
		VALUES (?, ?, ?, ?, ?, 0, 0, 0, 1)`,
		project, manifest, opts.Tolerance, opts.Threshold, len(report.CyclicTaskIDs))
	if err != nil {
		return 0, fmt.Errorf("history: insert refusal: %w", err)
	}
	runID, err := out.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: run id: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, project, manifest, tolerance, threshold,
			task_count, critical_count, near_count, violation_count, has_cycles
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Project, &r.Manifest,
			&r.Tolerance, &r.Threshold, &r.TaskCount, &r.CriticalCount,
			&r.NearCount, &r.ViolationCount, &r.HasCycles); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TaskResults returns the archived per-task results of one run, in the
// order they were stored (the run's processing order).
func (s *Store) TaskResults(ctx context.Context, runID int64) ([]slack.TaskResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, early_start, early_finish, late_start, late_finish,
			total_float, violates, critical, near_critical
		FROM task_results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: load task results: %w", err)
	}
	defer rows.Close()

	var out []slack.TaskResult
	for rows.Next() {
		var tr slack.TaskResult
		var earlyStart, earlyFinish, lateStart, lateFinish, totalFloat sql.NullFloat64
		if err := rows.Scan(&tr.ID, &earlyStart, &earlyFinish, &lateStart,
			&lateFinish, &totalFloat, &tr.ViolatesConstraints, &tr.Critical,
			&tr.NearCritical); err != nil {
			return nil, fmt.Errorf("history: scan task result: %w", err)
		}
		tr.EarlyStart = fromNull(earlyStart)
		tr.EarlyFinish = fromNull(earlyFinish)
		tr.LateStart = fromNull(lateStart)
		tr.LateFinish = fromNull(lateFinish)
		tr.TotalFloat = fromNull(totalFloat)
		tr.InScope = true
		out = append(out, tr)
	}
	return out, rows.Err()
}

// finite maps +Inf (undetermined float and its derived dates) to NULL,
// since SQLite has no infinity literal.
func finite(v float64) any {
	if math.IsInf(v, 0) {
		return nil
	}
	return v
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.Inf(1)
	}
	return v.Float64
}
