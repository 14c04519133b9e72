// Package graph builds the dependency graph for a schedule snapshot and
// provides the traversals the analysis engine needs: indexing with
// relationship deduplication, cycle detection, time-ordered topological
// ordering, and ancestor/descendant reachability closures.
package graph

import (
	"github.com/papapumpkin/perigee/internal/schedule"
)

// Graph is the indexed form of one snapshot. It is immutable after Build;
// accessor slices are owned by the Graph and must not be modified.
type Graph struct {
	tasks map[string]schedule.Task
	ids   []string // task IDs in snapshot order

	// Adjacency by task ID, in relationship encounter order.
	preds map[string][]string
	succs map[string][]string

	// Surviving relationships after dedup, in encounter order, plus
	// indexes from successor/predecessor ID to positions in rels.
	rels     []schedule.Relationship
	incoming map[string][]int
	outgoing map[string][]int
}

// Build indexes a snapshot. Self-loops, relationships naming unknown tasks,
// and duplicate (predecessor, successor) pairs are dropped; for duplicates
// the first occurrence wins. An empty snapshot yields an empty graph.
func Build(snap schedule.Snapshot) *Graph {
	g := &Graph{
		tasks:    make(map[string]schedule.Task, len(snap.Tasks)),
		ids:      make([]string, 0, len(snap.Tasks)),
		preds:    make(map[string][]string),
		succs:    make(map[string][]string),
		incoming: make(map[string][]int),
		outgoing: make(map[string][]int),
	}
	for _, t := range snap.Tasks {
		if _, dup := g.tasks[t.ID]; dup {
			continue
		}
		g.tasks[t.ID] = t
		g.ids = append(g.ids, t.ID)
	}

	seen := make(map[[2]string]bool, len(snap.Relationships))
	for _, r := range snap.Relationships {
		if r.PredecessorID == r.SuccessorID {
			continue
		}
		if _, ok := g.tasks[r.PredecessorID]; !ok {
			continue
		}
		if _, ok := g.tasks[r.SuccessorID]; !ok {
			continue
		}
		pair := [2]string{r.PredecessorID, r.SuccessorID}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		g.rels = append(g.rels, r)
		g.incoming[r.SuccessorID] = append(g.incoming[r.SuccessorID], len(g.rels)-1)
		g.outgoing[r.PredecessorID] = append(g.outgoing[r.PredecessorID], len(g.rels)-1)
		g.preds[r.SuccessorID] = append(g.preds[r.SuccessorID], r.PredecessorID)
		g.succs[r.PredecessorID] = append(g.succs[r.PredecessorID], r.SuccessorID)
	}
	return g
}

// Len returns the number of tasks.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Task returns the task with the given ID.
func (g *Graph) Task(id string) (schedule.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// TaskIDs returns all task IDs in snapshot order.
func (g *Graph) TaskIDs() []string {
	return g.ids
}

// Predecessors returns the predecessor IDs of a task in relationship order.
func (g *Graph) Predecessors(id string) []string {
	return g.preds[id]
}

// Successors returns the successor IDs of a task in relationship order.
func (g *Graph) Successors(id string) []string {
	return g.succs[id]
}

// Relationships returns the surviving relationships after indexing.
func (g *Graph) Relationships() []schedule.Relationship {
	return g.rels
}

// Incoming returns the relationships whose successor is the given task.
func (g *Graph) Incoming(id string) []schedule.Relationship {
	return g.byIndex(g.incoming[id])
}

// Outgoing returns the relationships whose predecessor is the given task.
func (g *Graph) Outgoing(id string) []schedule.Relationship {
	return g.byIndex(g.outgoing[id])
}

func (g *Graph) byIndex(idxs []int) []schedule.Relationship {
	if len(idxs) == 0 {
		return nil
	}
	out := make([]schedule.Relationship, len(idxs))
	for i, idx := range idxs {
		out[i] = g.rels[idx]
	}
	return out
}

// AncestorClosure returns the set of tasks that can affect the given task:
// everything reachable over predecessor edges, plus the task itself.
// Returns nil if the task is unknown. The BFS visited set makes the closure
// cycle-safe; cyclic regions are included, not flagged.
func (g *Graph) AncestorClosure(id string) map[string]bool {
	return g.closure(id, g.preds)
}

// DescendantClosure returns the set of tasks the given task can affect:
// everything reachable over successor edges, plus the task itself.
func (g *Graph) DescendantClosure(id string) map[string]bool {
	return g.closure(id, g.succs)
}

func (g *Graph) closure(id string, adj map[string][]string) map[string]bool {
	if _, ok := g.tasks[id]; !ok {
		return nil
	}
	visited := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}
