package cli

import (
	"context"
	"errors"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/fsmcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Findings bool
}

// HistoryRun is one row of the history command's JSON payload.
type HistoryRun struct {
	ID            string   `json:"id"`
	Seq           int64    `json:"seq"`
	MachineHash   string   `json:"machineHash"`
	EngineVersion string   `json:"engineVersion"`
	IsValid       bool     `json:"isValid"`
	Summary       string   `json:"summary"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	MachineID string       `json:"machineId"`
	Runs      []HistoryRun `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <machine-id>",
		Short: "List recorded verification runs of a machine",
		Long: `List verification runs recorded with "verify --record", oldest first.

Runs are grouped by machine ID; the content hash shows whether the
definition changed between runs.

Example:
  fsmcheck history door --db history.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Findings, "findings", false, "print each run's errors and warnings")

	return cmd
}

var errNoDatabase = errors.New("history requires --db (or FSMCHECK_DB)")

func runHistory(opts *HistoryOptions, machineID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	if opts.Database == "" {
		_ = formatter.Error(ErrCodeInvalidFlag, errNoDatabase.Error(), nil)
		return WrapExitError(ExitCommandError, "missing database", errNoDatabase)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := st.ListRuns(ctx, machineID)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}
	logger.Debug("history loaded", "machine", machineID, "runs", len(runs))

	result := HistoryResult{MachineID: machineID, Runs: make([]HistoryRun, 0, len(runs))}
	for _, r := range runs {
		result.Runs = append(result.Runs, HistoryRun{
			ID:            r.ID,
			Seq:           r.Seq,
			MachineHash:   r.MachineHash,
			EngineVersion: r.EngineVersion,
			IsValid:       r.Report.IsValid,
			Summary:       r.Report.Summary,
			Errors:        r.Report.Errors,
			Warnings:      r.Report.Warnings,
		})
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	if len(result.Runs) == 0 {
		formatter.Printf("No runs recorded for %s.\n", machineID)
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	writeRow(tw, "SEQ", "RUN", "HASH", "STATUS", "SUMMARY")
	for _, r := range result.Runs {
		status := "INVALID"
		if r.IsValid {
			status = "VALID"
		}
		writeRow(tw, int64toa(r.Seq), r.ID, shortHash(r.MachineHash), status, r.Summary)
	}
	tw.Flush()

	if opts.Findings {
		for _, r := range result.Runs {
			if len(r.Errors)+len(r.Warnings) == 0 {
				continue
			}
			formatter.Printf("\n%s:\n", r.ID)
			for _, e := range r.Errors {
				formatter.Printf("  %s\n", e)
			}
			for _, w := range r.Warnings {
				formatter.Printf("  %s\n", w)
			}
		}
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func int64toa(n int64) string {
	return itoa(int(n))
}
