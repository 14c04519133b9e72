// Package slack computes schedule conformance for a fixed project schedule.
// Actual start/finish dates are treated as ground truth; the engine derives,
// per task, the earliest start its predecessors required and the latest
// finish its successors required, classifies the difference as float, and
// flags critical, near-critical, and constraint-violating tasks along with
// the driving relationships between them.
package slack

import (
	"math"

	"github.com/papapumpkin/perigee/internal/graph"
	"github.com/papapumpkin/perigee/internal/schedule"
)

// Analyze runs a full-project analysis. The graph is checked for cycles
// first; if any exist the run is refused with a *graph.CycleError carrying
// the cyclic task IDs and path descriptions, and no per-task float is
// produced. The engine is a pure function of its inputs: rerunning on an
// unchanged graph yields identical output.
func Analyze(g *graph.Graph, opts Options) (*Result, error) {
	if report := g.DetectCycles(); report.HasCycles {
		return nil, &graph.CycleError{Report: report}
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	return run(g, order, nil, "", opts), nil
}

// run executes the forward and backward passes over the given processing
// order and classifies every task. scope is nil for full-project runs; for
// scoped runs only edges with both endpoints inside the scope bind.
func run(g *graph.Graph, order []string, scope map[string]bool, seedID string, opts Options) *Result {
	in := func(id string) bool { return scope == nil || scope[id] }

	// Forward pass: earliest required start per task, the maximum over all
	// incoming edges of the start implied by the predecessor's actual
	// dates. Later-evaluated edges can only tighten the requirement.
	earliest := make(map[string]float64, len(order))
	for _, id := range order {
		task, _ := g.Task(id)
		bound := false
		required := math.Inf(-1)
		for _, rel := range g.Incoming(id) {
			if !in(rel.PredecessorID) {
				continue
			}
			pred, _ := g.Task(rel.PredecessorID)
			implied := impliedStart(rel, pred, task)
			if !bound || implied > required {
				required = implied
				bound = true
			}
		}
		if bound {
			earliest[id] = required
		}
	}

	// Backward pass: latest required finish per task, the minimum over all
	// outgoing edges of the finish implied by the successor's actual dates.
	latest := make(map[string]float64, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		task, _ := g.Task(id)
		bound := false
		required := math.Inf(1)
		for _, rel := range g.Outgoing(id) {
			if !in(rel.SuccessorID) {
				continue
			}
			succ, _ := g.Task(rel.SuccessorID)
			implied := impliedFinish(rel, task, succ)
			if !bound || implied < required {
				required = implied
				bound = true
			}
		}
		if bound {
			latest[id] = required
		}
	}

	res := &Result{
		Order:  order,
		Tasks:  make(map[string]*TaskResult, g.Len()),
		Scope:  scope,
		SeedID: seedID,
	}

	for _, id := range g.TaskIDs() {
		task, _ := g.Task(id)
		if !in(id) {
			res.Tasks[id] = excludedResult(task)
			continue
		}
		res.Tasks[id] = classify(task, earliest, latest, opts)
	}

	// Relationship driving classification, then fold edge criticality back
	// into the endpoint tasks.
	res.Relationships = make([]RelationshipResult, 0, len(g.Relationships()))
	for _, rel := range g.Relationships() {
		critical := false
		if in(rel.PredecessorID) && in(rel.SuccessorID) {
			pred, _ := g.Task(rel.PredecessorID)
			succ, _ := g.Task(rel.SuccessorID)
			critical = relationshipCritical(rel, pred, succ, res.Tasks, opts.Tolerance)
		}
		if critical {
			res.Tasks[rel.PredecessorID].CriticalByRelationship = true
			res.Tasks[rel.SuccessorID].CriticalByRelationship = true
		}
		res.Relationships = append(res.Relationships, RelationshipResult{
			PredecessorID: rel.PredecessorID,
			SuccessorID:   rel.SuccessorID,
			Critical:      critical,
		})
	}

	for _, id := range order {
		tr := res.Tasks[id]
		tr.Critical = (tr.CriticalByFloat && !tr.ViolatesConstraints) || tr.CriticalByRelationship
	}

	// The seed of a scoped run is always highlighted, whatever its float.
	if seedID != "" {
		if tr, ok := res.Tasks[seedID]; ok {
			tr.Critical = true
		}
	}

	return res
}

// impliedStart returns the earliest start the relationship requires of the
// successor, given the predecessor's actual dates.
func impliedStart(rel schedule.Relationship, pred, succ schedule.Task) float64 {
	lag := rel.LagDays()
	switch rel.Type {
	case schedule.StartToStart:
		return pred.Start + lag
	case schedule.FinishToFinish:
		return pred.Finish - succ.Duration() + lag
	case schedule.StartToFinish:
		return pred.Start - succ.Duration() + lag
	default: // FinishToStart
		return pred.Finish + lag
	}
}

// impliedFinish returns the latest finish the relationship permits the
// predecessor, given the successor's actual dates.
func impliedFinish(rel schedule.Relationship, pred, succ schedule.Task) float64 {
	lag := rel.LagDays()
	switch rel.Type {
	case schedule.StartToStart:
		return succ.Start - lag + pred.Duration()
	case schedule.FinishToFinish:
		return succ.Finish - lag
	case schedule.StartToFinish:
		return succ.Finish - lag - succ.Duration() + pred.Duration()
	default: // FinishToStart
		return succ.Start - lag
	}
}

// classify converts the propagation bounds for one task into float and
// criticality flags. A side with no binding edges contributes +Inf slack;
// a task unbounded on both sides is undetermined (float +Inf, no flags).
func classify(task schedule.Task, earliest, latest map[string]float64, opts Options) *TaskResult {
	startSlack := math.Inf(1)
	earlyStart := task.Start
	if ers, ok := earliest[task.ID]; ok {
		startSlack = task.Start - ers
		earlyStart = ers
	}
	finishSlack := math.Inf(1)
	if lrf, ok := latest[task.ID]; ok {
		finishSlack = lrf - task.Finish
	}

	total := math.Min(startSlack, finishSlack)
	eps := opts.Tolerance

	tr := &TaskResult{
		ID:          task.ID,
		EarlyStart:  earlyStart,
		EarlyFinish: earlyStart + task.Duration(),
		TotalFloat:  total,
		InScope:     true,
	}

	switch {
	case total < -eps:
		tr.ViolatesConstraints = true
	case math.Abs(total) <= eps:
		tr.CriticalByFloat = true
	case total <= opts.Threshold:
		tr.NearCritical = true
	}

	if math.IsInf(total, 1) {
		tr.LateFinish = math.Inf(1)
		tr.LateStart = math.Inf(1)
	} else {
		tr.LateFinish = task.Finish + math.Max(0, total)
		tr.LateStart = tr.LateFinish - task.Duration()
	}
	return tr
}

// excludedResult is the placeholder for tasks outside a scoped run's
// closure: undefined float, nothing flagged.
func excludedResult(task schedule.Task) *TaskResult {
	return &TaskResult{
		ID:          task.ID,
		EarlyStart:  task.Start,
		EarlyFinish: task.Start + task.Duration(),
		LateStart:   math.Inf(1),
		LateFinish:  math.Inf(1),
		TotalFloat:  math.Inf(1),
	}
}

// relationshipCritical classifies one relationship. An externally supplied
// free float short-circuits the driving calculation; otherwise the edge is
// critical iff its constraint is exactly met by the endpoints' actual dates
// and both endpoints are critical by float.
func relationshipCritical(rel schedule.Relationship, pred, succ schedule.Task, tasks map[string]*TaskResult, eps float64) bool {
	if rel.FreeFloat != nil {
		return *rel.FreeFloat <= eps
	}
	if !isDriving(rel, pred, succ, eps) {
		return false
	}
	return tasks[pred.ID].CriticalByFloat && tasks[succ.ID].CriticalByFloat
}

// isDriving reports whether the relationship's constraint is met exactly
// (within tolerance) by the two tasks' actual dates.
func isDriving(rel schedule.Relationship, pred, succ schedule.Task, eps float64) bool {
	lag := rel.LagDays()
	var diff float64
	switch rel.Type {
	case schedule.StartToStart:
		diff = pred.Start + lag - succ.Start
	case schedule.FinishToFinish:
		diff = pred.Finish + lag - succ.Finish
	case schedule.StartToFinish:
		diff = pred.Start + lag - succ.Finish
	default: // FinishToStart
		diff = pred.Finish + lag - succ.Start
	}
	return math.Abs(diff) <= eps
}
