// Package history records verification runs of machine definitions.
//
// A Recorder generates the report for a machine, stamps it with a run ID
// and a logical sequence number, and persists it through the store.
// Sequence numbers come from a monotonic Clock, never from wall time, so
// the order of recorded runs is reproducible.
package history
