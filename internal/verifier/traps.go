package verifier

import (
	"slices"

	"github.com/roach88/fsmcheck/internal/model"
)

// Trap is a set of non-final states that can cycle among themselves but
// never leave: a multi-state livelock.
type Trap struct {
	States []string `json:"states"` // members in state order
	Cycle  []string `json:"cycle"`  // one cycle through the members, first == last
}

// FindTraps returns the closed cycles of the transition graph that contain
// no final state, ordered by the position of their first member.
//
// A trap is a strongly connected component that has at least one internal
// edge (more than one member, or a self-loop), no edge leaving it, and no
// member flagged final. Reachability is not considered; callers combine
// the result with ComputeReachableSet when they need it.
//
// Returns an empty slice (not nil) when there are none.
func FindTraps(m *model.StateMachine) []Trap {
	adj := buildAdjacency(m)

	order := make(map[string]int, len(m.States))
	nodes := make([]string, 0, len(m.States))
	for i, s := range m.States {
		if _, dup := order[s.ID]; !dup {
			order[s.ID] = i
			nodes = append(nodes, s.ID)
		}
	}

	final := make(map[string]bool)
	for _, s := range m.States {
		if s.IsFinal {
			final[s.ID] = true
		}
	}

	traps := []Trap{}
	for _, scc := range stronglyConnected(nodes, adj) {
		members := make(map[string]bool, len(scc))
		for _, id := range scc {
			members[id] = true
		}
		if !isClosedCycle(scc, members, adj) || slices.ContainsFunc(scc, func(id string) bool { return final[id] }) {
			continue
		}

		slices.SortFunc(scc, func(a, b string) int { return rank(order, a) - rank(order, b) })
		traps = append(traps, Trap{States: scc, Cycle: cyclePath(scc, members, adj)})
	}

	slices.SortFunc(traps, func(a, b Trap) int {
		return rank(order, a.States[0]) - rank(order, b.States[0])
	})
	return traps
}

// rank places undeclared IDs (dangling targets) after every declared state.
func rank(order map[string]int, id string) int {
	if i, ok := order[id]; ok {
		return i
	}
	return len(order)
}

// isClosedCycle reports whether the component has an internal edge and
// no edge leaving it.
func isClosedCycle(scc []string, members map[string]bool, adj adjacency) bool {
	internal := false
	for _, v := range scc {
		for _, w := range adj[v] {
			if !members[w] {
				return false
			}
			internal = true
		}
	}
	return internal
}

// stronglyConnected finds strongly connected components with Tarjan's
// algorithm. Roots are visited in the given order and successors in
// transition order, so the result is deterministic.
func stronglyConnected(nodes []string, adj adjacency) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cyclePath returns a shortest cycle through the first member, found by
// breadth-first search inside the component. A self-loop yields [id, id].
func cyclePath(scc []string, members map[string]bool, adj adjacency) []string {
	start := scc[0]
	parent := map[string]string{start: ""}
	queue := []string{start}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		for _, w := range adj[v] {
			if w == start {
				path := []string{start}
				for at := v; at != start; at = parent[at] {
					path = append(path, at)
				}
				path = append(path, start)
				slices.Reverse(path)
				return path
			}
			if _, seen := parent[w]; seen || !members[w] {
				continue
			}
			parent[w] = v
			queue = append(queue, w)
		}
	}

	return []string{start}
}
