package model

// MachineType tags a machine as Mealy or Moore. Informational only.
type MachineType string

const (
	MachineMealy MachineType = "mealy"
	MachineMoore MachineType = "moore"
)

// ParseMachineType maps any value other than "mealy" to MachineMoore.
func ParseMachineType(s string) MachineType {
	if s == string(MachineMealy) {
		return MachineMealy
	}
	return MachineMoore
}

// State is a single machine state.
// Name is what invariants compare against and is not guaranteed unique.
type State struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	IsInitial bool   `json:"isInitial" yaml:"isInitial"`
	IsFinal   bool   `json:"isFinal" yaml:"isFinal"`
}

// Transition is a directed edge From -> To.
// Output is only meaningful for Mealy machines.
type Transition struct {
	ID     string `json:"id" yaml:"id"`
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Input  string `json:"input,omitempty" yaml:"input,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// StateMachine is an immutable snapshot built fresh per verification call.
type StateMachine struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Type        MachineType  `json:"type" yaml:"type"`
	States      []State      `json:"states" yaml:"states"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`
}

// StateIndex maps each state ID to the position of its first occurrence.
// Later duplicates are shadowed.
func (m *StateMachine) StateIndex() map[string]int {
	idx := make(map[string]int, len(m.States))
	for i, s := range m.States {
		if _, ok := idx[s.ID]; !ok {
			idx[s.ID] = i
		}
	}
	return idx
}

// InitialState returns the first state flagged initial, in state order.
func (m *StateMachine) InitialState() (State, bool) {
	for _, s := range m.States {
		if s.IsInitial {
			return s, true
		}
	}
	return State{}, false
}

// InitialCount returns how many states are flagged initial.
func (m *StateMachine) InitialCount() int {
	n := 0
	for _, s := range m.States {
		if s.IsInitial {
			n++
		}
	}
	return n
}

// Lookup returns the first state with the given ID.
func (m *StateMachine) Lookup(id string) (State, bool) {
	for _, s := range m.States {
		if s.ID == id {
			return s, true
		}
	}
	return State{}, false
}
