// Package model defines the in-memory state machine snapshot consumed by the
// verifier.
//
// The model is passive data. It does not enforce unique state IDs, a single
// initial state, or valid transition endpoints; those conditions are detected
// and reported by the verifier instead of being rejected at construction.
//
// Key design constraints:
//   - State order is the authoritative tie-break order wherever "first
//     matching" semantics apply
//   - Transition labels carry no analysis weight
//   - A snapshot is never mutated once built
//   - Canonical JSON (RFC 8785) is the only serialization used for content
//     hashing
package model
