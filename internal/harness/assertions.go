package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/verifier"
)

// AssertionError describes one failed expectation.
type AssertionError struct {
	Field    string // expectation that failed, e.g. "expect.valid"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

func mismatch(field string, expected, actual any) *AssertionError {
	return &AssertionError{
		Field:    field,
		Expected: describe(expected),
		Actual:   describe(actual),
	}
}

func describe(v any) string {
	switch val := v.(type) {
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprint(val)
	}
}

// checkExpectation compares a report against every non-nil expectation.
func checkExpectation(m *model.StateMachine, report verifier.VerificationReport, reachable []string, exp *Expectation) []error {
	var errs []error

	if exp.Valid != nil && *exp.Valid != report.IsValid {
		errs = append(errs, mismatch("expect.valid", *exp.Valid, report.IsValid))
	}
	if exp.ReachableStates != nil && *exp.ReachableStates != report.ReachableStates {
		errs = append(errs, mismatch("expect.reachable_states", *exp.ReachableStates, report.ReachableStates))
	}
	if exp.TotalStates != nil && *exp.TotalStates != report.TotalStates {
		errs = append(errs, mismatch("expect.total_states", *exp.TotalStates, report.TotalStates))
	}
	if exp.Reachable != nil {
		if err := compareList("expect.reachable", *exp.Reachable, reachable); err != nil {
			errs = append(errs, err)
		}
	}
	if exp.Deadlocks != nil {
		if err := compareList("expect.deadlocks", *exp.Deadlocks, report.Deadlocks); err != nil {
			errs = append(errs, err)
		}
	}
	if exp.FinalReachable != nil {
		got := verifier.CanReachFinalState(m).IsReachable
		if got != *exp.FinalReachable {
			errs = append(errs, mismatch("expect.final_reachable", *exp.FinalReachable, got))
		}
	}
	if exp.Errors != nil {
		if err := compareList("expect.errors", *exp.Errors, report.Errors); err != nil {
			errs = append(errs, err)
		}
	}
	if exp.Warnings != nil {
		if err := compareList("expect.warnings", *exp.Warnings, report.Warnings); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// compareList requires exact equality including order. A nil expected
// list equals an empty actual list.
func compareList(field string, expected, actual []string) error {
	if len(expected) == 0 && len(actual) == 0 {
		return nil
	}
	if !slices.Equal(expected, actual) {
		return mismatch(field, expected, actual)
	}
	return nil
}

// checkInvariant evaluates one invariant case.
func checkInvariant(m *model.StateMachine, index int, c InvariantCase) error {
	got := verifier.CheckInvariant(m, c.Expr)
	field := fmt.Sprintf("invariants[%d] %q", index, c.Expr)

	if got.Holds != c.Holds {
		return mismatch(field+" holds", c.Holds, got.Holds)
	}
	if c.FailingState != "" && got.FailingState != c.FailingState {
		return mismatch(field+" failing_state", c.FailingState, got.FailingState)
	}
	return nil
}

// checkReach evaluates one reachability case.
func checkReach(m *model.StateMachine, index int, c ReachCase) error {
	got := verifier.IsStateReachable(m, c.Target)
	if got.IsReachable != c.Reachable {
		return mismatch(fmt.Sprintf("reach[%d] %s", index, c.Target), c.Reachable, got.IsReachable)
	}
	return nil
}
