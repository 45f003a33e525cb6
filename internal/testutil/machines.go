package testutil

import "github.com/roach88/fsmcheck/internal/model"

// TrafficLight returns a valid cyclic Moore machine with no final state.
//
//	red -> green -> yellow -> red
func TrafficLight() *model.StateMachine {
	return &model.StateMachine{
		ID:   "traffic-light",
		Name: "Traffic Light",
		Type: model.MachineMoore,
		States: []model.State{
			{ID: "red", Name: "Red", IsInitial: true},
			{ID: "green", Name: "Green"},
			{ID: "yellow", Name: "Yellow"},
		},
		Transitions: []model.Transition{
			{ID: "t1", From: "red", To: "green", Input: "timer"},
			{ID: "t2", From: "green", To: "yellow", Input: "timer"},
			{ID: "t3", From: "yellow", To: "red", Input: "timer"},
		},
	}
}

// Turnstile returns a valid Mealy machine with a reachable final state.
func Turnstile() *model.StateMachine {
	return &model.StateMachine{
		ID:   "turnstile",
		Name: "Turnstile",
		Type: model.MachineMealy,
		States: []model.State{
			{ID: "locked", Name: "Locked", IsInitial: true},
			{ID: "unlocked", Name: "Unlocked"},
			{ID: "retired", Name: "Retired", IsFinal: true},
		},
		Transitions: []model.Transition{
			{ID: "t1", From: "locked", To: "unlocked", Input: "coin", Output: "unlock"},
			{ID: "t2", From: "unlocked", To: "locked", Input: "push", Output: "lock"},
			{ID: "t3", From: "locked", To: "retired", Input: "decommission"},
		},
	}
}

// Orphaned returns a machine with no initial state.
func Orphaned() *model.StateMachine {
	m := TrafficLight()
	m.ID = "orphaned"
	m.Name = "Orphaned"
	m.States[0].IsInitial = false
	return m
}
