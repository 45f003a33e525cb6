package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/verifier"
)

// DefaultGoldenDir is where golden files live relative to the test package.
const DefaultGoldenDir = "testdata/golden"

// Snapshot renders the canonical JSON golden form of a scenario result:
// the scenario name, the full report and the reachable state IDs.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	return model.MarshalCanonical(map[string]any{
		"scenario":  scenarioName,
		"report":    reportObject(result.Report),
		"reachable": result.Reachable,
	})
}

// reportObject mirrors the report's JSON field names.
func reportObject(r verifier.VerificationReport) map[string]any {
	return map[string]any{
		"isValid":         r.IsValid,
		"errors":          r.Errors,
		"warnings":        r.Warnings,
		"reachableStates": r.ReachableStates,
		"totalStates":     r.TotalStates,
		"deadlocks":       r.Deadlocks,
		"summary":         r.Summary,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(DefaultGoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
