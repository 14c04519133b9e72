package slack

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/perigee/internal/graph"
)

// ErrTaskNotFound is returned when a scoped run names an unknown task.
var ErrTaskNotFound = errors.New("task not found")

// Direction selects which closure a scoped run traces from the seed task.
type Direction int

const (
	// Ancestors traces everything that can affect the seed task.
	Ancestors Direction = iota
	// Descendants traces everything the seed task can affect.
	Descendants
)

// ParseDirection converts a CLI string into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "ancestors", "up":
		return Ancestors, nil
	case "descendants", "down":
		return Descendants, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want ancestors or descendants)", s)
}

func (d Direction) String() string {
	if d == Descendants {
		return "descendants"
	}
	return "ancestors"
}

// AnalyzeScoped runs a task-scoped analysis: the seed's ancestor or
// descendant closure is traced, propagation and classification run on the
// induced subgraph, and every task outside the closure is reported with
// undefined float and no criticality. The seed itself is always marked
// critical. Unlike Analyze, scoped runs do not gate on cycles: the closure
// BFS terminates on cycles, and any cyclic region reachable from the seed
// is included unflagged.
func AnalyzeScoped(g *graph.Graph, seedID string, dir Direction, opts Options) (*Result, error) {
	var closure map[string]bool
	if dir == Descendants {
		closure = g.DescendantClosure(seedID)
	} else {
		closure = g.AncestorClosure(seedID)
	}
	if closure == nil {
		return nil, fmt.Errorf("%w: %q", ErrTaskNotFound, seedID)
	}
	order := g.OrderWithin(closure)
	return run(g, order, closure, seedID, opts), nil
}
