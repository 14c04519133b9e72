// Package manifest loads schedule.toml files and converts them into the
// numeric snapshot the analysis engine consumes. Calendar dates only exist
// here: tasks are converted to fractional work-day offsets from the
// earliest start across the schedule (the epoch) before the engine ever
// sees them.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/perigee/internal/schedule"
)

// DefaultFile is the manifest filename looked up when none is given.
const DefaultFile = "schedule.toml"

// ErrNoManifest is returned when the manifest file does not exist.
var ErrNoManifest = errors.New("no schedule manifest found")

// Manifest mirrors the schedule.toml layout.
type Manifest struct {
	Project       ProjectSpec        `toml:"project"`
	Tasks         []TaskSpec         `toml:"tasks"`
	Relationships []RelationshipSpec `toml:"relationships"`
}

// ProjectSpec carries schedule-wide settings. Tolerance and Threshold,
// when present, override the configured classification bands.
type ProjectSpec struct {
	Name           string   `toml:"name"`
	FloatTolerance *float64 `toml:"float_tolerance"`
	FloatThreshold *float64 `toml:"float_threshold"`
}

// TaskSpec is one [[tasks]] entry. Start and Finish accept an RFC 3339
// date ("2026-03-02") or datetime. Milestones may omit Finish.
type TaskSpec struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	Start     string `toml:"start"`
	Finish    string `toml:"finish"`
	Milestone bool   `toml:"milestone"`
}

// RelationshipSpec is one [[relationships]] entry. Type defaults to FS,
// lag to zero; free_float is passed through as an optional override.
type RelationshipSpec struct {
	Pred      string   `toml:"pred"`
	Succ      string   `toml:"succ"`
	Type      string   `toml:"type"`
	Lag       *float64 `toml:"lag"`
	FreeFloat *float64 `toml:"free_float"`
}

// Load reads and decodes a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

// Snapshot validates the manifest and converts it to day offsets. The
// epoch is the minimum start date across all tasks, so a schedule's
// earliest task always sits at offset zero.
func (m *Manifest) Snapshot() (schedule.Snapshot, error) {
	if len(m.Tasks) == 0 {
		return schedule.Snapshot{}, errors.New("manifest defines no tasks")
	}

	type parsedTask struct {
		spec          TaskSpec
		start, finish time.Time
	}
	parsed := make([]parsedTask, 0, len(m.Tasks))
	seen := make(map[string]bool, len(m.Tasks))
	var epoch time.Time

	for _, ts := range m.Tasks {
		if ts.ID == "" {
			return schedule.Snapshot{}, errors.New("task with empty id")
		}
		if seen[ts.ID] {
			return schedule.Snapshot{}, fmt.Errorf("duplicate task id %q", ts.ID)
		}
		seen[ts.ID] = true

		start, err := parseDate(ts.Start)
		if err != nil {
			return schedule.Snapshot{}, fmt.Errorf("task %q start: %w", ts.ID, err)
		}
		finish := start
		if ts.Finish != "" {
			finish, err = parseDate(ts.Finish)
			if err != nil {
				return schedule.Snapshot{}, fmt.Errorf("task %q finish: %w", ts.ID, err)
			}
		} else if !ts.Milestone {
			return schedule.Snapshot{}, fmt.Errorf("task %q has no finish and is not a milestone", ts.ID)
		}
		if finish.Before(start) {
			return schedule.Snapshot{}, fmt.Errorf("task %q finishes before it starts", ts.ID)
		}
		if epoch.IsZero() || start.Before(epoch) {
			epoch = start
		}
		parsed = append(parsed, parsedTask{spec: ts, start: start, finish: finish})
	}

	var snap schedule.Snapshot
	for _, pt := range parsed {
		name := pt.spec.Name
		if name == "" {
			name = pt.spec.ID
		}
		snap.Tasks = append(snap.Tasks, schedule.Task{
			ID:        pt.spec.ID,
			Name:      name,
			Start:     dayOffset(epoch, pt.start),
			Finish:    dayOffset(epoch, pt.finish),
			Milestone: pt.spec.Milestone,
		})
	}

	for _, rs := range m.Relationships {
		typ, err := schedule.ParseRelationType(rs.Type)
		if err != nil {
			return schedule.Snapshot{}, fmt.Errorf("relationship %s→%s: %w", rs.Pred, rs.Succ, err)
		}
		snap.Relationships = append(snap.Relationships, schedule.Relationship{
			PredecessorID: rs.Pred,
			SuccessorID:   rs.Succ,
			Type:          typ,
			Lag:           rs.Lag,
			FreeFloat:     rs.FreeFloat,
		})
	}
	return snap, nil
}

// parseDate accepts an RFC 3339 date or datetime.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q (want 2006-01-02 or RFC 3339)", s)
	}
	return t, nil
}

func dayOffset(epoch, t time.Time) float64 {
	return t.Sub(epoch).Hours() / 24
}
