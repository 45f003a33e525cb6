package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/fsmcheck/internal/verifier"
)

// DeadlocksResult is the JSON payload of the deadlocks command.
type DeadlocksResult struct {
	Deadlocks []string `json:"deadlocks"`
}

// NewDeadlocksCommand creates the deadlocks command.
func NewDeadlocksCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadlocks <machine-file>",
		Short: "List non-final states without outgoing transitions",
		Long: `List deadlock states: non-final states with no outgoing transitions.

Detection does not depend on reachability; unreachable dead ends are
listed too. Deadlocks are findings, not failures: the command exits 0
whenever the definition loads.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeadlocks(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDeadlocks(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := LoadMachine(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	result := DeadlocksResult{Deadlocks: verifier.FindDeadlocks(m)}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	if len(result.Deadlocks) == 0 {
		formatter.Printf("No deadlock states.\n")
		return nil
	}
	formatter.Printf("Deadlock states (%d):\n", len(result.Deadlocks))
	for _, id := range result.Deadlocks {
		formatter.Printf("  - %s\n", describeState(m, id))
	}
	return nil
}
