package render

import (
	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/verifier"
)

// Overlay carries analysis results to shade on a rendered graph.
// A nil *Overlay renders the bare structure.
type Overlay struct {
	Reachable verifier.StateSet
	Deadlocks map[string]bool
	Livelocks map[string]bool
}

// Analyze computes the overlay for m.
func Analyze(m *model.StateMachine) *Overlay {
	o := &Overlay{
		Reachable: verifier.ComputeReachableSet(m),
		Deadlocks: make(map[string]bool),
		Livelocks: make(map[string]bool),
	}
	for _, id := range verifier.FindDeadlocks(m) {
		o.Deadlocks[id] = true
	}
	for _, id := range verifier.FindLivelocks(m) {
		o.Livelocks[id] = true
	}
	return o
}

func (o *Overlay) unreachable(id string) bool {
	return o != nil && !o.Reachable.Contains(id)
}

func (o *Overlay) deadlock(id string) bool {
	return o != nil && o.Deadlocks[id]
}

func (o *Overlay) livelock(id string) bool {
	return o != nil && o.Livelocks[id]
}

// edgeGroup is every transition between one ordered pair of states.
type edgeGroup struct {
	from, to string
	labels   []string
}

// groupEdges merges parallel transitions, keeping first-appearance order.
func groupEdges(m *model.StateMachine) []edgeGroup {
	var groups []edgeGroup
	index := make(map[[2]string]int)

	for _, t := range m.Transitions {
		key := [2]string{t.From, t.To}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, edgeGroup{from: t.From, to: t.To})
		}
		if label := transitionLabel(t); label != "" {
			groups[i].labels = append(groups[i].labels, label)
		}
	}
	return groups
}

// transitionLabel is "input/output", "input" or "" (Mealy convention).
func transitionLabel(t model.Transition) string {
	switch {
	case t.Input != "" && t.Output != "":
		return t.Input + "/" + t.Output
	case t.Input != "":
		return t.Input
	case t.Output != "":
		return "/" + t.Output
	}
	return ""
}

// danglingTargets lists undeclared transition endpoints in first-appearance order.
func danglingTargets(m *model.StateMachine) []string {
	idx := m.StateIndex()
	seen := make(map[string]bool)
	var out []string
	for _, t := range m.Transitions {
		for _, id := range []string{t.From, t.To} {
			if _, ok := idx[id]; !ok && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
