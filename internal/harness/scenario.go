package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fsmcheck/internal/compiler"
	"github.com/roach88/fsmcheck/internal/model"
)

// Scenario defines a verification scenario for one machine.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Machine is an inline machine definition in the boundary shape.
	Machine yaml.Node `yaml:"machine,omitempty"`

	// MachineFile is a path to a .json, .yaml or .cue machine definition,
	// relative to the scenario file.
	MachineFile string `yaml:"machine_file,omitempty"`

	// Expect lists report-level expectations. Nil fields are not checked.
	Expect *Expectation `yaml:"expect,omitempty"`

	// Invariants are evaluated with the invariant checker.
	Invariants []InvariantCase `yaml:"invariants,omitempty"`

	// Reach are single-target reachability checks.
	Reach []ReachCase `yaml:"reach,omitempty"`

	// machine is the decoded definition, filled in by LoadScenario.
	machine *model.StateMachine
}

// Expectation specifies report expectations.
// Pointer fields distinguish "not checked" from zero values; list fields
// compare exactly, including order.
type Expectation struct {
	Valid           *bool     `yaml:"valid,omitempty"`
	ReachableStates *int      `yaml:"reachable_states,omitempty"`
	TotalStates     *int      `yaml:"total_states,omitempty"`
	Reachable       *[]string `yaml:"reachable,omitempty"`
	Deadlocks       *[]string `yaml:"deadlocks,omitempty"`
	FinalReachable  *bool     `yaml:"final_reachable,omitempty"`
	Errors          *[]string `yaml:"errors,omitempty"`
	Warnings        *[]string `yaml:"warnings,omitempty"`
}

// InvariantCase is an invariant expression with its expected outcome.
type InvariantCase struct {
	Expr         string `yaml:"expr"`
	Holds        bool   `yaml:"holds"`
	FailingState string `yaml:"failing_state,omitempty"`
}

// ReachCase is a target state with its expected reachability.
type ReachCase struct {
	Target    string `yaml:"target"`
	Reachable bool   `yaml:"reachable"`
}

// StateMachine returns the decoded machine, or nil if the scenario was
// not produced by LoadScenario or NewScenario.
func (s *Scenario) StateMachine() *model.StateMachine {
	return s.machine
}

// NewScenario builds a scenario around an already-decoded machine.
func NewScenario(name string, m *model.StateMachine) *Scenario {
	return &Scenario{Name: name, Description: name, machine: m}
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "invariant:" vs "invariants:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	m, err := resolveMachine(&scenario, path)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	scenario.machine = m

	return &scenario, nil
}

// resolveMachine decodes the inline machine or loads machine_file
// relative to the scenario's directory.
func resolveMachine(s *Scenario, scenarioPath string) (*model.StateMachine, error) {
	if s.Machine.Kind != 0 {
		return compiler.DecodeMachineNode(&s.Machine, scenarioPath)
	}

	path := s.MachineFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(scenarioPath), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine file: %w", err)
	}
	return compiler.ParseMachine(data, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	hasInline := s.Machine.Kind != 0
	hasFile := s.MachineFile != ""
	switch {
	case !hasInline && !hasFile:
		return fmt.Errorf("one of machine or machine_file is required")
	case hasInline && hasFile:
		return fmt.Errorf("machine and machine_file are mutually exclusive")
	}

	if s.Expect == nil && len(s.Invariants) == 0 && len(s.Reach) == 0 {
		return fmt.Errorf("at least one of expect, invariants or reach is required")
	}

	for i, inv := range s.Invariants {
		if inv.Expr == "" {
			return fmt.Errorf("invariants[%d]: expr is required", i)
		}
		if inv.Holds && inv.FailingState != "" {
			return fmt.Errorf("invariants[%d]: failing_state requires holds: false", i)
		}
	}

	for i, r := range s.Reach {
		if r.Target == "" {
			return fmt.Errorf("reach[%d]: target is required", i)
		}
	}

	return nil
}
