package cli

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/render"
	"github.com/roach88/fsmcheck/internal/verifier"
)

// StateInfo is one row of the inspect table.
type StateInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Initial   bool   `json:"initial"`
	Final     bool   `json:"final"`
	Reachable bool   `json:"reachable"`
	Deadlock  bool   `json:"deadlock"`
	Livelock  bool   `json:"livelock"`
	Trap      bool   `json:"trap"`
	Outgoing  int    `json:"outgoing"`
}

// InspectResult is the JSON payload of the inspect command.
type InspectResult struct {
	MachineID string          `json:"machineId"`
	States    []StateInfo     `json:"states"`
	Traps     []verifier.Trap `json:"traps"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <machine-file>",
		Short: "Show per-state analysis",
		Long: `Show a per-state table: initial and final flags, reachability,
deadlock and livelock status, and the number of outgoing transitions.

A livelock state here is a non-final state whose only transitions loop
back to itself. A trap is a group of non-final states that cycle among
themselves with no way out; each trap is listed with one of its cycles.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := LoadMachine(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	traps := verifier.FindTraps(m)
	result := InspectResult{MachineID: m.ID, States: inspectStates(m, traps), Traps: traps}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	formatter.Printf("Machine: %s (%s)\n", m.Name, m.ID)

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	writeRow(tw, "ID", "NAME", "INITIAL", "FINAL", "REACHABLE", "DEADLOCK", "LIVELOCK", "TRAP", "OUT")
	for _, s := range result.States {
		writeRow(tw, s.ID, s.Name, mark(s.Initial), mark(s.Final), mark(s.Reachable),
			mark(s.Deadlock), mark(s.Livelock), mark(s.Trap), itoa(s.Outgoing))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, trap := range traps {
		formatter.Printf("Trap: %s\n", strings.Join(trap.Cycle, " -> "))
	}
	return nil
}

func inspectStates(m *model.StateMachine, traps []verifier.Trap) []StateInfo {
	overlay := render.Analyze(m)

	trapped := make(map[string]bool)
	for _, trap := range traps {
		for _, id := range trap.States {
			trapped[id] = true
		}
	}

	outgoing := make(map[string]int)
	for _, t := range m.Transitions {
		outgoing[t.From]++
	}

	states := make([]StateInfo, 0, len(m.States))
	for _, s := range m.States {
		states = append(states, StateInfo{
			ID:        s.ID,
			Name:      s.Name,
			Initial:   s.IsInitial,
			Final:     s.IsFinal,
			Reachable: overlay.Reachable.Contains(s.ID),
			Deadlock:  overlay.Deadlocks[s.ID],
			Livelock:  overlay.Livelocks[s.ID],
			Trap:      trapped[s.ID],
			Outgoing:  outgoing[s.ID],
		})
	}
	return states
}

func writeRow(tw *tabwriter.Writer, cols ...string) {
	for i, c := range cols {
		if i > 0 {
			tw.Write([]byte{'\t'})
		}
		tw.Write([]byte(c))
	}
	tw.Write([]byte{'\n'})
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
