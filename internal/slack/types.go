package slack

// DefaultTolerance is the default near-zero band (ε) for float comparisons.
const DefaultTolerance = 0.01

// DefaultThreshold is the default near-critical band (τ) in work days.
const DefaultThreshold = 1.0

// Options are the classification thresholds for one analysis run.
type Options struct {
	// Tolerance (ε) is the numeric near-zero band: floats within ±ε of zero
	// count as zero, and floats below −ε count as violations.
	Tolerance float64

	// Threshold (τ) is the near-critical band: floats in (ε, τ] mark a task
	// near-critical. Must be ≥ 0.
	Threshold float64
}

// TaskResult holds the computed conformance values for one task. Results
// are scratch output of a single run, never written back onto the tasks.
type TaskResult struct {
	ID string

	// EarlyStart is the earliest start required by predecessor actual
	// dates; EarlyFinish adds the task's duration. Tasks with no binding
	// predecessors report their actual start.
	EarlyStart  float64
	EarlyFinish float64

	// LateFinish is actual finish plus any non-negative float; LateStart
	// subtracts the duration. Kept for reporting only.
	LateStart  float64
	LateFinish float64

	// TotalFloat is the task's slack in work days. +Inf means undetermined:
	// no finite required-time bound reaches this task.
	TotalFloat float64

	ViolatesConstraints    bool
	CriticalByFloat        bool
	CriticalByRelationship bool
	Critical               bool
	NearCritical           bool

	// InScope is false only in scoped runs, for tasks outside the selected
	// closure. Out-of-scope tasks carry +Inf float and no flags.
	InScope bool
}

// RelationshipResult is the per-relationship classification.
type RelationshipResult struct {
	PredecessorID string
	SuccessorID   string
	Critical      bool
}

// Result is the output snapshot of one analysis run.
type Result struct {
	// Order lists in-scope task IDs in the processing order (topological,
	// ties broken by actual start).
	Order []string

	// Tasks holds one result per task in the graph, keyed by ID.
	Tasks map[string]*TaskResult

	Relationships []RelationshipResult

	// Scope is the closure used for a scoped run; nil for full-project runs.
	Scope map[string]bool

	// SeedID is the selected task of a scoped run; empty otherwise.
	SeedID string
}

// Counts tallies the classification flags over all in-scope tasks.
func (r *Result) Counts() (critical, nearCritical, violating int) {
	for _, tr := range r.Tasks {
		if !tr.InScope {
			continue
		}
		if tr.Critical {
			critical++
		}
		if tr.NearCritical {
			nearCritical++
		}
		if tr.ViolatesConstraints {
			violating++
		}
	}
	return critical, nearCritical, violating
}
