package harness

import "github.com/roach88/fsmcheck/internal/verifier"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation matched.
	Pass bool `json:"pass"`

	// Report is the verification report of the scenario's machine.
	Report verifier.VerificationReport `json:"report"`

	// Reachable lists reachable state IDs in enumeration order.
	Reachable []string `json:"reachable"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Reachable: []string{},
		Errors:    []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
