package verifier

import "github.com/roach88/fsmcheck/internal/model"

// machine builds a snapshot from compact state and edge specs.
// Each edge is a [from, to] pair; transition IDs are t1, t2, ...
func machine(states []model.State, edges ...[2]string) *model.StateMachine {
	m := &model.StateMachine{
		ID:     "test",
		Name:   "Test Machine",
		Type:   model.MachineMealy,
		States: states,
	}
	for i, e := range edges {
		m.Transitions = append(m.Transitions, model.Transition{
			ID:   "t" + string(rune('1'+i)),
			From: e[0],
			To:   e[1],
		})
	}
	return m
}

func st(id string) model.State {
	return model.State{ID: id, Name: id}
}

func initial(id string) model.State {
	return model.State{ID: id, Name: id, IsInitial: true}
}

func final(id string) model.State {
	return model.State{ID: id, Name: id, IsFinal: true}
}

func edge(from, to string) [2]string {
	return [2]string{from, to}
}
