package verifier

import (
	"fmt"

	"github.com/roach88/fsmcheck/internal/model"
)

// Finding message prefixes.
const (
	errorPrefix   = "ERROR: "
	warningPrefix = "WARNING: "
)

// VerificationReport aggregates every check run against a machine.
//
// IsValid is false iff the initial-state or transition-endpoint checks
// produced an error. Warnings never affect validity. Slices are never nil
// so the JSON form always carries arrays.
type VerificationReport struct {
	IsValid         bool     `json:"isValid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	ReachableStates int      `json:"reachableStates"`
	TotalStates     int      `json:"totalStates"`
	TransitionCount int      `json:"-"`
	Deadlocks       []string `json:"deadlocks"`
	Summary         string   `json:"summary"`
}

// Status renders validity as VALID or INVALID.
func (r *VerificationReport) Status() string {
	if r.IsValid {
		return "VALID"
	}
	return "INVALID"
}

func (r *VerificationReport) addError(format string, args ...any) {
	r.IsValid = false
	r.Errors = append(r.Errors, errorPrefix+fmt.Sprintf(format, args...))
}

func (r *VerificationReport) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, warningPrefix+fmt.Sprintf(format, args...))
}

// GenerateReport runs every check in a fixed order:
//  1. exactly one initial state
//  2. every transition endpoint names an existing state
//  3. duplicate state IDs (warning)
//  4. reachability counts
//  5. one warning per unreachable state, by name
//  6. one warning per deadlock
//  7. a warning when no final state is reachable
//  8. the one-line summary
func GenerateReport(m *model.StateMachine) VerificationReport {
	report := VerificationReport{
		IsValid:   true,
		Errors:    []string{},
		Warnings:  []string{},
		Deadlocks: []string{},
	}

	switch n := m.InitialCount(); {
	case n == 0:
		report.addError("No initial state defined")
	case n > 1:
		report.addError("Multiple initial states defined")
	}

	idx := m.StateIndex()
	for _, t := range m.Transitions {
		if _, ok := idx[t.From]; !ok {
			report.addError("Transition from non-existent state: %s", t.From)
		}
		if _, ok := idx[t.To]; !ok {
			report.addError("Transition to non-existent state: %s", t.To)
		}
	}

	seen := make(map[string]int, len(m.States))
	for _, s := range m.States {
		seen[s.ID]++
		if seen[s.ID] == 2 {
			report.addWarning("Duplicate state id: %s", s.ID)
		}
	}

	reachable := ComputeReachableSet(m)
	report.ReachableStates = reachable.Len()
	report.TotalStates = len(m.States)
	report.TransitionCount = len(m.Transitions)

	for _, s := range m.States {
		if !reachable.Contains(s.ID) {
			report.addWarning("Unreachable state: %s", s.Name)
		}
	}

	report.Deadlocks = FindDeadlocks(m)
	for _, id := range report.Deadlocks {
		report.addWarning("Potential deadlock state: %s", id)
	}

	if !CanReachFinalState(m).IsReachable {
		report.addWarning("No final state is reachable")
	}

	report.Summary = fmt.Sprintf("States: %d (Reachable: %d) | Transitions: %d | Status: %s",
		report.TotalStates, report.ReachableStates, report.TransitionCount, report.Status())

	return report
}
