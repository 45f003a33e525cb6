// Package harness runs machine verification scenarios.
//
// A scenario is a YAML file naming a machine (inline or by path) and the
// findings its verification is expected to produce: validity, reachable
// states, deadlocks, invariant outcomes and reachability checks. Run
// evaluates every expectation and collects mismatches instead of stopping
// at the first one.
//
// Golden files capture the canonical JSON of the full report so that any
// change in wording or ordering of findings is caught. Regenerate them with:
//
//	go test ./internal/harness -update
//
// or, for scenario directories driven from the command line:
//
//	fsmcheck test ./scenarios --update
package harness
