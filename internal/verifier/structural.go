package verifier

import "github.com/roach88/fsmcheck/internal/model"

// IsDeadlock reports whether no transition leaves stateID.
// Purely structural: reachability is irrelevant.
func IsDeadlock(m *model.StateMachine, stateID string) bool {
	for _, t := range m.Transitions {
		if t.From == stateID {
			return false
		}
	}
	return true
}

// FindDeadlocks returns, in state order, every state with no outgoing
// transitions that is not flagged final. A final state with no exits is the
// expected shape of a terminal state, not a defect.
//
// Returns an empty slice (not nil) when there are none.
func FindDeadlocks(m *model.StateMachine) []string {
	deadlocks := []string{}
	for _, s := range m.States {
		if !s.IsFinal && IsDeadlock(m, s.ID) {
			deadlocks = append(deadlocks, s.ID)
		}
	}
	return deadlocks
}

// IsLivelock reports whether every transition leaving stateID loops back
// to stateID. A state with no outgoing transitions is vacuously a livelock,
// so IsDeadlock implies IsLivelock.
func IsLivelock(m *model.StateMachine, stateID string) bool {
	for _, t := range m.Transitions {
		if t.From == stateID && t.To != stateID {
			return false
		}
	}
	return true
}

// FindLivelocks returns, in state order, the non-final states that can only
// spin on themselves: IsLivelock holds and at least one self-loop exists.
// Pure deadlocks are left to FindDeadlocks.
func FindLivelocks(m *model.StateMachine) []string {
	selfLoops := make(map[string]bool)
	for _, t := range m.Transitions {
		if t.From == t.To {
			selfLoops[t.From] = true
		}
	}

	livelocks := []string{}
	for _, s := range m.States {
		if !s.IsFinal && selfLoops[s.ID] && IsLivelock(m, s.ID) {
			livelocks = append(livelocks, s.ID)
		}
	}
	return livelocks
}
