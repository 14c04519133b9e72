package graph

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/perigee/internal/pq"
)

// ErrCycle is returned when a topological ordering is impossible.
var ErrCycle = errors.New("cycle detected")

// TopologicalOrder returns all task IDs ordered by Kahn's algorithm.
// The ready set is a min-heap keyed by actual start, so independent tasks
// are processed in time order and the ordering is deterministic. Returns
// ErrCycle if not every task could be ordered; callers gate on DetectCycles
// first, so this is a safety net.
func (g *Graph) TopologicalOrder() ([]string, error) {
	order := g.kahn(nil)
	if len(order) != len(g.ids) {
		return nil, fmt.Errorf("%w: ordered %d of %d tasks", ErrCycle, len(order), len(g.ids))
	}
	return order, nil
}

// OrderWithin orders the tasks of an induced subgraph. Only edges with both
// endpoints inside the scope count toward in-degrees. Tasks left unordered
// by a cycle inside the scope are appended in start-time order, so scoped
// analysis never fails outright on cyclic regions.
func (g *Graph) OrderWithin(scope map[string]bool) []string {
	order := g.kahn(scope)
	total := len(scope)
	if len(order) == total {
		return order
	}

	placed := make(map[string]bool, len(order))
	for _, id := range order {
		placed[id] = true
	}
	leftover := pq.NewMin[string]()
	for _, id := range g.ids {
		if scope[id] && !placed[id] {
			leftover.Push(id, g.tasks[id].Start, id)
		}
	}
	for {
		id, ok := leftover.Pop()
		if !ok {
			break
		}
		order = append(order, id)
	}
	return order
}

// kahn runs Kahn's algorithm over the whole graph (scope == nil) or an
// induced subgraph.
func (g *Graph) kahn(scope map[string]bool) []string {
	in := func(id string) bool { return scope == nil || scope[id] }

	inDegree := make(map[string]int, len(g.ids))
	ready := pq.NewMin[string]()
	n := 0
	for _, id := range g.ids {
		if !in(id) {
			continue
		}
		n++
		deg := 0
		for _, p := range g.preds[id] {
			if in(p) {
				deg++
			}
		}
		inDegree[id] = deg
		if deg == 0 {
			ready.Push(id, g.tasks[id].Start, id)
		}
	}

	order := make([]string, 0, n)
	for {
		id, ok := ready.Pop()
		if !ok {
			break
		}
		order = append(order, id)
		for _, succ := range g.succs[id] {
			if !in(succ) {
				continue
			}
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready.Push(succ, g.tasks[succ].Start, succ)
			}
		}
	}
	return order
}
