package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/fsmcheck/internal/verifier"
)

// ReachResult is the JSON payload of the reach command.
type ReachResult struct {
	Target string `json:"target,omitempty"` // empty when checking final-state reachability
	verifier.ReachabilityResult
}

// NewReachCommand creates the reach command.
func NewReachCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reach <machine-file> [state-id]",
		Short: "Check whether a state is reachable",
		Long: `Check whether a state is reachable from the initial state.

Without a state ID, checks whether any final state is reachable.

Exit codes:
  0 - Reachable
  1 - Not reachable
  2 - Command error

Examples:
  fsmcheck reach door.json broken
  fsmcheck reach door.json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 2 {
				target = args[1]
			}
			return runReach(rootOpts, args[0], target, cmd)
		},
	}

	return cmd
}

func runReach(opts *RootOptions, path, target string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := LoadMachine(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	result := ReachResult{Target: target}
	if target == "" {
		result.ReachabilityResult = verifier.CanReachFinalState(m)
	} else {
		result.ReachabilityResult = verifier.IsStateReachable(m, target)
	}
	opts.logger().Debug("reachability checked", "machine", m.ID, "target", target, "reachable", result.IsReachable)

	if formatter.IsJSON() {
		if !result.IsReachable {
			if err := formatter.Failure(ErrCodeUnreachable, result.Message, result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, result.Message)
		}
		return formatter.Success(result)
	}

	if target != "" {
		formatter.Printf("Target: %s\n", describeState(m, target))
	}
	if result.IsReachable {
		formatter.Printf("✓ %s\n", result.Message)
		return nil
	}
	formatter.Printf("✗ %s\n", result.Message)
	return NewExitError(ExitFailure, result.Message)
}
