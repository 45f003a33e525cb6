// Package verifier implements the fsmcheck verification engine.
//
// The engine analyzes an immutable model.StateMachine snapshot and reports
// structural correctness properties:
//
//   - Reachability: breadth-first traversal from the first state flagged
//     initial, following transition edges from -> to and ignoring labels
//   - Structure: deadlock and livelock classification straight from the
//     transition adjacency, independent of reachability
//   - Invariants: a minimal "lhs op rhs" predicate evaluated against the
//     name of every reachable state
//   - Reports: initial-state cardinality and endpoint checks combined with
//     the analyses above into one VerificationReport
//
// Every function is pure with respect to its input. Nothing is cached or
// mutated, so concurrent callers may share a snapshot without locking. Cost
// is linear in states plus transitions.
//
// Findings are data, not failures: structural errors and warnings are
// fields of a successfully returned report, and an unrecognized invariant
// expression degrades to "always satisfied".
package verifier
