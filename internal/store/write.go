package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteRun inserts a run and its findings in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - rewriting an existing
// run ID is a silent no-op and leaves its findings untouched.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, machine_id, machine_name, machine_hash, machine_json, engine_version,
		 is_valid, reachable_states, total_states, transition_count, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seq,
		run.MachineID,
		run.MachineName,
		run.MachineHash,
		run.MachineJSON,
		run.EngineVersion,
		boolToInt(run.Report.IsValid),
		run.Report.ReachableStates,
		run.Report.TotalStates,
		run.Report.TransitionCount,
		run.Report.Summary,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if inserted == 0 {
		return nil
	}

	groups := []struct {
		severity string
		messages []string
	}{
		{SeverityError, run.Report.Errors},
		{SeverityWarning, run.Report.Warnings},
		{SeverityDeadlock, run.Report.Deadlocks},
	}
	for _, g := range groups {
		if err := writeFindings(ctx, tx, run.ID, g.severity, g.messages); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

func writeFindings(ctx context.Context, tx *sql.Tx, runID, severity string, messages []string) error {
	for i, msg := range messages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO findings (run_id, severity, position, message)
			VALUES (?, ?, ?, ?)
		`, runID, severity, i, msg)
		if err != nil {
			return fmt.Errorf("write %s finding %d: %w", severity, i, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
