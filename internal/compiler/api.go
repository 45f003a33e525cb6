package compiler

import (
	"path/filepath"
	"strings"

	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/verifier"
)

// ParseMachine picks a decoder from the file extension: ".cue" goes
// through the CUE compiler, anything else through the JSON/YAML decoder.
func ParseMachine(data []byte, filename string) (*model.StateMachine, error) {
	if strings.EqualFold(filepath.Ext(filename), ".cue") {
		return CompileMachineSource(data, filename)
	}
	return DecodeMachineFile(data, filename)
}

// VerifyStateMachine decodes a machine and returns its verification report.
// A non-nil error is always a *CompileError describing malformed input;
// structural problems are carried inside the report instead.
func VerifyStateMachine(data []byte) (verifier.VerificationReport, error) {
	m, err := DecodeMachine(data)
	if err != nil {
		return verifier.VerificationReport{}, err
	}
	return verifier.GenerateReport(m), nil
}

// CheckReachability decodes a machine and tests whether targetStateID is
// reachable from its initial state.
func CheckReachability(data []byte, targetStateID string) (verifier.ReachabilityResult, error) {
	m, err := DecodeMachine(data)
	if err != nil {
		return verifier.ReachabilityResult{}, err
	}
	return verifier.IsStateReachable(m, targetStateID), nil
}

// FindDeadlocks decodes a machine and lists its non-final states without
// outgoing transitions.
func FindDeadlocks(data []byte) ([]string, error) {
	m, err := DecodeMachine(data)
	if err != nil {
		return nil, err
	}
	return verifier.FindDeadlocks(m), nil
}
