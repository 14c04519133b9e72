package graph

import (
	"fmt"
	"sort"
	"strings"
)

// CycleReport is the result of cycle detection over the successor graph.
type CycleReport struct {
	HasCycles     bool
	CyclicTaskIDs []string // sorted, every task on at least one cycle
	Descriptions  []string // one "a → b → a" trace per detected cycle
}

// CycleError is returned when a full-project analysis is refused because
// the dependency graph contains at least one cycle.
type CycleError struct {
	Report CycleReport
}

func (e *CycleError) Error() string {
	if len(e.Report.Descriptions) == 0 {
		return "schedule contains a dependency cycle"
	}
	return fmt.Sprintf("schedule contains %d dependency cycle(s): %s",
		len(e.Report.Descriptions), e.Report.Descriptions[0])
}

// DetectCycles runs a depth-first search from every unvisited task,
// maintaining a recursion stack. A back-edge to a task currently on the
// stack is a cycle; the full cyclic path is recorded and every task on it
// is marked cyclic. The search continues past detected cycles so the
// report covers the whole graph.
func (g *Graph) DetectCycles() CycleReport {
	const (
		white = iota // not yet visited
		gray         // on the recursion stack
		black        // fully processed
	)

	color := make(map[string]int, len(g.ids))
	cyclic := make(map[string]bool)
	var descriptions []string
	var path []string

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		path = append(path, id)
		for _, succ := range g.succs[id] {
			switch color[succ] {
			case white:
				dfs(succ)
			case gray:
				// Back-edge: the cycle is the path suffix starting at succ.
				start := 0
				for i, p := range path {
					if p == succ {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, path[start:]...), succ)
				for _, c := range cycle {
					cyclic[c] = true
				}
				descriptions = append(descriptions, strings.Join(cycle, " → "))
			}
		}
		path = path[:len(path)-1]
		color[id] = black
	}

	for _, id := range g.ids {
		if color[id] == white {
			dfs(id)
		}
	}

	ids := make([]string, 0, len(cyclic))
	for id := range cyclic {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return CycleReport{
		HasCycles:     len(ids) > 0,
		CyclicTaskIDs: ids,
		Descriptions:  descriptions,
	}
}
