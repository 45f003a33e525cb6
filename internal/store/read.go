package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `id, seq, machine_id, machine_name, machine_hash, machine_json, engine_version,
	is_valid, reachable_states, total_states, transition_count, summary`

// ReadRun retrieves a single run with its findings.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err != nil {
		return Run{}, err
	}
	if err := s.attachFindings(ctx, &run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns every run of a machine ID, oldest first.
// Results are ordered by seq ASC, id ASC.
//
// Returns an empty slice (not nil) if the machine has no runs.
func (s *Store) ListRuns(ctx context.Context, machineID string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE machine_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, machineID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		if err := s.attachFindings(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// LatestRunForHash returns the most recent run of an identical machine
// definition. The boolean is false when none exists.
func (s *Store) LatestRunForHash(ctx context.Context, hash string) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE machine_hash = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, hash)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	if err := s.attachFindings(ctx, &run); err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// NextSeq returns the next logical sequence number (1 for an empty store).
func (s *Store) NextSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return seq, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run     Run
		isValid int
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.MachineID,
		&run.MachineName,
		&run.MachineHash,
		&run.MachineJSON,
		&run.EngineVersion,
		&isValid,
		&run.Report.ReachableStates,
		&run.Report.TotalStates,
		&run.Report.TransitionCount,
		&run.Report.Summary,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Report.IsValid = isValid == 1
	return run, nil
}

// attachFindings loads errors, warnings and deadlocks in recorded order.
func (s *Store) attachFindings(ctx context.Context, run *Run) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT severity, message
		FROM findings
		WHERE run_id = ?
		ORDER BY severity ASC, position ASC
	`, run.ID)
	if err != nil {
		return fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	report := &run.Report
	report.Errors = []string{}
	report.Warnings = []string{}
	report.Deadlocks = []string{}

	for rows.Next() {
		var severity, message string
		if err := rows.Scan(&severity, &message); err != nil {
			return fmt.Errorf("scan finding: %w", err)
		}
		switch severity {
		case SeverityError:
			report.Errors = append(report.Errors, message)
		case SeverityWarning:
			report.Warnings = append(report.Warnings, message)
		case SeverityDeadlock:
			report.Deadlocks = append(report.Deadlocks, message)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate findings: %w", err)
	}
	return nil
}
