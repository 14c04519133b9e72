// Package schedule defines the value types for a fixed project schedule:
// tasks with immutable actual start/finish offsets, and typed precedence
// relationships between them. All times are fractional work-day offsets
// from a caller-chosen epoch; nothing in this package parses calendar dates.
package schedule

import "fmt"

// RelationType identifies which endpoints of a predecessor/successor pair
// constrain each other.
type RelationType string

const (
	FinishToStart  RelationType = "FS" // predecessor finish constrains successor start
	StartToStart   RelationType = "SS" // predecessor start constrains successor start
	FinishToFinish RelationType = "FF" // predecessor finish constrains successor finish
	StartToFinish  RelationType = "SF" // predecessor start constrains successor finish
)

// ParseRelationType converts a manifest string into a RelationType.
func ParseRelationType(s string) (RelationType, error) {
	switch RelationType(s) {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return RelationType(s), nil
	case "":
		return FinishToStart, nil
	}
	return "", fmt.Errorf("unknown relationship type %q (want FS, SS, FF, or SF)", s)
}

// Task is one scheduled activity. Start and Finish are actual recorded
// offsets in work days; they are never recomputed by analysis.
type Task struct {
	ID        string
	Name      string
	Start     float64
	Finish    float64
	Milestone bool
}

// Duration returns the task's span in work days. Milestones are always
// zero-length regardless of their recorded finish.
func (t Task) Duration() float64 {
	if t.Milestone {
		return 0
	}
	return t.Finish - t.Start
}

// Relationship is a directed precedence constraint between two tasks.
// Lag is a signed work-day offset (negative = lead); nil means zero.
// FreeFloat, when present, overrides the derived driving calculation
// for relationship criticality; nil means "derive".
type Relationship struct {
	PredecessorID string
	SuccessorID   string
	Type          RelationType
	Lag           *float64
	FreeFloat     *float64
}

// LagDays returns the lag with the nil-means-zero default applied.
func (r Relationship) LagDays() float64 {
	if r.Lag == nil {
		return 0
	}
	return *r.Lag
}

// Snapshot is one self-contained analysis input. Snapshots are rebuilt
// wholesale for every run; analysis never mutates them.
type Snapshot struct {
	Tasks         []Task
	Relationships []Relationship
}
