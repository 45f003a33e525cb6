package verifier

import (
	"fmt"
	"slices"

	"github.com/roach88/fsmcheck/internal/model"
)

// ReachabilityResult reports whether a target is reachable.
// Path is reserved and always empty; no traversal path is materialized.
type ReachabilityResult struct {
	IsReachable bool     `json:"isReachable"`
	Path        []string `json:"path,omitempty"`
	Message     string   `json:"message"`
}

// StateSet is a set of state identifiers.
type StateSet map[string]struct{}

// Contains reports whether id is a member.
func (s StateSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s StateSet) Len() int {
	return len(s)
}

// Sorted returns the members in enumeration order (byte-wise by ID).
// This is the order invariants are evaluated in.
func (s StateSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// adjacency maps a source state ID to the targets of its outgoing
// transitions, in transition order. Multi-edges are kept.
type adjacency map[string][]string

func buildAdjacency(m *model.StateMachine) adjacency {
	adj := make(adjacency, len(m.States))
	for _, t := range m.Transitions {
		adj[t.From] = append(adj[t.From], t.To)
	}
	return adj
}

// ComputeReachableSet returns every state ID reachable from the initial
// state via zero or more transitions.
//
// The traversal is seeded from the first state flagged initial, in state
// order. With no initial state the set is empty; there is no fallback to
// the first state. Each ID is visited at most once. Targets of dangling
// transitions are members too, so the set is closed under outgoing edges.
func ComputeReachableSet(m *model.StateMachine) StateSet {
	reachable := make(StateSet)

	initial, ok := m.InitialState()
	if !ok {
		return reachable
	}

	adj := buildAdjacency(m)
	queue := []string{initial.ID}
	reachable[initial.ID] = struct{}{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range adj[current] {
			if reachable.Contains(next) {
				continue
			}
			reachable[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	return reachable
}

// ReachableStates returns the reachable set in enumeration order.
func ReachableStates(m *model.StateMachine) []string {
	return ComputeReachableSet(m).Sorted()
}

// IsStateReachable tests whether targetID belongs to the reachable set.
func IsStateReachable(m *model.StateMachine, targetID string) ReachabilityResult {
	if ComputeReachableSet(m).Contains(targetID) {
		return ReachabilityResult{
			IsReachable: true,
			Message:     "State is reachable",
		}
	}
	return ReachabilityResult{
		IsReachable: false,
		Message:     "State is not reachable from initial state",
	}
}

// CanReachFinalState reports whether any state flagged final is reachable.
// On success the message names the first such state in state order.
func CanReachFinalState(m *model.StateMachine) ReachabilityResult {
	reachable := ComputeReachableSet(m)

	for _, s := range m.States {
		if s.IsFinal && reachable.Contains(s.ID) {
			return ReachabilityResult{
				IsReachable: true,
				Message:     fmt.Sprintf("Final state '%s' is reachable", s.Name),
			}
		}
	}

	return ReachabilityResult{
		IsReachable: false,
		Message:     "No final state reachable",
	}
}
