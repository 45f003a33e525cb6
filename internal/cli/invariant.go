package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/fsmcheck/internal/verifier"
)

// InvariantOptions holds flags for the invariant command.
type InvariantOptions struct {
	*RootOptions
	Expr string
}

// InvariantResult is the JSON payload of the invariant command.
type InvariantResult struct {
	Expression string            `json:"expression"`
	Operator   verifier.Operator `json:"operator"`
	verifier.InvariantCheckResult
}

// NewInvariantCommand creates the invariant command.
func NewInvariantCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvariantOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invariant <machine-file> --expr \"<lhs> <op> <rhs>\"",
		Short: "Check a per-state invariant over reachable states",
		Long: `Check a per-state invariant on every reachable state.

The expression has three whitespace-separated tokens. The operator is
recognized by substring: "!=" holds when the state name differs from the
right-hand side, "==" when it equals it. Any other shape holds vacuously.
The left-hand side is not consulted.

Exit codes:
  0 - Invariant holds
  1 - Invariant violated
  2 - Command error

Example:
  fsmcheck invariant door.json --expr "state != Broken"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvariant(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Expr, "expr", "", "invariant expression (required)")
	_ = cmd.MarkFlagRequired("expr")

	return cmd
}

func runInvariant(opts *InvariantOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	m, err := LoadMachine(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	inv := verifier.ParseInvariant(opts.Expr)
	if inv.Op == verifier.OpNone {
		logger.Warn("expression has no recognized operator and holds vacuously", "expr", opts.Expr)
	}

	result := InvariantResult{
		Expression:           opts.Expr,
		Operator:             inv.Op,
		InvariantCheckResult: verifier.CheckInvariant(m, opts.Expr),
	}

	if formatter.IsJSON() {
		if !result.Holds {
			if err := formatter.Failure(ErrCodeViolated, result.Message, result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, result.Message)
		}
		return formatter.Success(result)
	}

	if result.Holds {
		formatter.Printf("✓ %s\n", result.Message)
		return nil
	}
	formatter.Printf("✗ %s\n", result.Message)
	formatter.Printf("  Failing state: %s\n", describeState(m, result.FailingState))
	return NewExitError(ExitFailure, result.Message)
}
