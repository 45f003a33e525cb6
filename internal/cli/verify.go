package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fsmcheck/internal/history"
	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/store"
	"github.com/roach88/fsmcheck/internal/verifier"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Record bool

	// IDGenerator overrides run ID generation (for testing).
	// If nil, the recorder uses UUIDv7 IDs.
	IDGenerator history.IDGenerator
}

// VerifyResult is the JSON payload of the verify command.
type VerifyResult struct {
	MachineID   string                      `json:"machineId"`
	MachineName string                      `json:"machineName"`
	Type        model.MachineType           `json:"type"`
	Report      verifier.VerificationReport `json:"report"`
	RunID       string                      `json:"runId,omitempty"`
	Seq         int64                       `json:"seq,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <machine-file>",
		Short: "Generate a verification report",
		Long: `Generate the full verification report for a machine definition.

Errors (missing or multiple initial states, transitions touching
undeclared states) make the machine invalid. Warnings (unreachable
states, deadlocks, no reachable final state) are reported but do not
affect validity.

Exit codes:
  0 - Machine is valid
  1 - Machine is invalid
  2 - Command error (unreadable or malformed definition, database error)

Examples:
  fsmcheck verify door.json
  fsmcheck verify door.cue --format json
  fsmcheck verify door.yaml --db history.db --record`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Record, "record", false, "store the run in the --db history database")

	return cmd
}

func runVerify(opts *VerifyOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	if opts.Record && opts.Database == "" {
		_ = formatter.Error(ErrCodeInvalidFlag, "--record requires --db", nil)
		return NewExitError(ExitCommandError, "--record requires --db")
	}

	m, err := LoadMachine(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	logger.Debug("machine loaded", "path", path, "machine", m.ID, "states", len(m.States), "transitions", len(m.Transitions))

	result := VerifyResult{
		MachineID:   m.ID,
		MachineName: m.Name,
		Type:        m.Type,
		Report:      verifier.GenerateReport(m),
	}

	if opts.Record {
		run, err := recordRun(cmd.Context(), opts, m)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = run.ID
		result.Seq = run.Seq
	}

	if formatter.IsJSON() {
		if !result.Report.IsValid {
			if err := formatter.Failure(ErrCodeInvalidMachine, "machine is invalid", result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "machine is invalid")
		}
		return formatter.Success(result)
	}

	writeReportText(formatter, result)
	if !result.Report.IsValid {
		return NewExitError(ExitFailure, "machine is invalid")
	}
	return nil
}

func recordRun(ctx context.Context, opts *VerifyOptions, m *model.StateMachine) (store.Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger()

	st, err := store.Open(opts.Database)
	if err != nil {
		return store.Run{}, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	recOpts := []history.Option{history.WithLogger(logger)}
	if opts.IDGenerator != nil {
		recOpts = append(recOpts, history.WithIDGenerator(opts.IDGenerator))
	}
	rec, err := history.NewRecorder(ctx, st, recOpts...)
	if err != nil {
		return store.Run{}, err
	}

	if prev, seen, err := rec.Seen(ctx, m); err != nil {
		return store.Run{}, err
	} else if seen {
		logger.Info("definition unchanged since previous run", "run", prev.ID, "seq", prev.Seq)
	}

	return rec.Record(ctx, m)
}

func writeReportText(f *OutputFormatter, r VerifyResult) {
	f.Printf("Machine: %s (%s, %s)\n", r.MachineName, r.MachineID, r.Type)
	for _, e := range r.Report.Errors {
		f.Printf("  %s\n", e)
	}
	for _, w := range r.Report.Warnings {
		f.Printf("  %s\n", w)
	}
	f.Printf("%s\n", r.Report.Summary)
	if r.RunID != "" {
		f.Printf("Recorded run %s (seq %d)\n", r.RunID, r.Seq)
	}

	if r.Report.IsValid {
		f.Printf("✓ Machine is valid\n")
	} else {
		f.Printf("✗ Machine is invalid (%d error(s))\n", len(r.Report.Errors))
	}
}

// describeState renders "Name (id)" for text output.
func describeState(m *model.StateMachine, id string) string {
	if s, ok := m.Lookup(id); ok && s.Name != "" && s.Name != id {
		return fmt.Sprintf("%s (%s)", s.Name, id)
	}
	return id
}
