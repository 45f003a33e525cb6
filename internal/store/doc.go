// Package store provides SQLite-backed history of verification runs.
//
// Each run records one VerificationReport together with the canonical JSON
// and content hash of the machine it was produced from:
//   - runs: one row per verification, keyed by run ID
//   - findings: the report's errors, warnings and deadlocks, in order
//
// # Ordering
//
// Runs are stamped with a logical sequence number, never a wall-clock
// timestamp. Every list query uses ORDER BY seq ASC, id ASC COLLATE BINARY
// so results are identical across machines and replays.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
