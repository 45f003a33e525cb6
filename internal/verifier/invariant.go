package verifier

import (
	"fmt"
	"strings"

	"github.com/roach88/fsmcheck/internal/model"
)

// Operator is the comparison recognized in an invariant expression.
type Operator string

const (
	OpNotEqual Operator = "!="
	OpEqual    Operator = "=="
	OpNone     Operator = ""
)

// Invariant is a parsed "lhs op rhs" expression.
//
// The grammar is deliberately minimal and its quirks are part of the
// contract:
//   - the operator is found by substring search over the whole text, and
//     "!=" wins over "==" when both appear
//   - LHS is parsed but never consulted
//   - RHS is compared against the state's name, not its ID
//   - any other shape is vacuously true
type Invariant struct {
	Expression string
	LHS        string
	Op         Operator
	RHS        string
}

// ParseInvariant tokenizes expr into whitespace-separated lhs, operator and
// rhs tokens. Missing tokens are empty; extra tokens are ignored.
func ParseInvariant(expr string) Invariant {
	inv := Invariant{Expression: expr}

	switch {
	case strings.Contains(expr, string(OpNotEqual)):
		inv.Op = OpNotEqual
	case strings.Contains(expr, string(OpEqual)):
		inv.Op = OpEqual
	default:
		inv.Op = OpNone
		return inv
	}

	fields := strings.Fields(expr)
	if len(fields) > 0 {
		inv.LHS = fields[0]
	}
	if len(fields) > 2 {
		inv.RHS = fields[2]
	}
	return inv
}

// Holds evaluates the predicate for a single state.
func (inv Invariant) Holds(s model.State) bool {
	switch inv.Op {
	case OpNotEqual:
		return s.Name != inv.RHS
	case OpEqual:
		return s.Name == inv.RHS
	default:
		return true
	}
}

// InvariantCheckResult is the outcome of CheckInvariant.
// FailingPath holds exactly the failing state; no path is reconstructed.
type InvariantCheckResult struct {
	Holds        bool     `json:"holds"`
	FailingState string   `json:"failingState,omitempty"`
	FailingPath  []string `json:"failingPath,omitempty"`
	Message      string   `json:"message"`
}

// CheckInvariant evaluates expression against every reachable state in
// enumeration order and returns the first violation.
//
// A reachable ID that names no state (the target of a dangling transition)
// cannot satisfy a recognized predicate.
func CheckInvariant(m *model.StateMachine, expression string) InvariantCheckResult {
	inv := ParseInvariant(expression)
	result := InvariantCheckResult{
		Holds:   true,
		Message: "Invariant holds on all reachable states",
	}

	if inv.Op == OpNone {
		return result
	}

	idx := m.StateIndex()
	for _, id := range ComputeReachableSet(m).Sorted() {
		i, ok := idx[id]
		if ok && inv.Holds(m.States[i]) {
			continue
		}
		return InvariantCheckResult{
			Holds:        false,
			FailingState: id,
			FailingPath:  []string{id},
			Message:      fmt.Sprintf("Invariant violated at state: %s", id),
		}
	}

	return result
}
