package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/fsmcheck/internal/verifier"
)

// Harness evaluates scenarios.
type Harness struct {
	logger *slog.Logger
}

// New creates a harness that logs to logger. A nil logger discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run generates the report for the scenario's machine and checks every
// expectation against it. Failed expectations are collected in the result;
// an error is returned only when the scenario cannot be executed at all.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	m := scenario.StateMachine()
	if m == nil {
		return nil, fmt.Errorf("scenario %q has no machine loaded", scenario.Name)
	}

	result := NewResult()
	result.Report = verifier.GenerateReport(m)
	result.Reachable = verifier.ReachableStates(m)

	h.logger.Debug("scenario report",
		"scenario", scenario.Name,
		"machine", m.ID,
		"valid", result.Report.IsValid,
		"reachable", result.Report.ReachableStates,
		"total", result.Report.TotalStates,
	)

	if scenario.Expect != nil {
		for _, err := range checkExpectation(m, result.Report, result.Reachable, scenario.Expect) {
			result.AddError(err.Error())
		}
	}

	for i, c := range scenario.Invariants {
		if err := checkInvariant(m, i, c); err != nil {
			result.AddError(err.Error())
		}
	}

	for i, c := range scenario.Reach {
		if err := checkReach(m, i, c); err != nil {
			result.AddError(err.Error())
		}
	}

	if !result.Pass {
		h.logger.Debug("scenario failed", "scenario", scenario.Name, "failures", len(result.Errors))
	}

	return result, nil
}
