package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/testutil"
)

func TestFindTraps_TwoStateLoop(t *testing.T) {
	m := machine(
		[]model.State{initial("a"), st("b"), st("c"), final("d")},
		edge("a", "b"), edge("b", "c"), edge("c", "b"), edge("a", "d"),
	)

	traps := FindTraps(m)
	require.Len(t, traps, 1)
	assert.Equal(t, []string{"b", "c"}, traps[0].States)
	assert.Equal(t, []string{"b", "c", "b"}, traps[0].Cycle)
}

func TestFindTraps_SelfLoop(t *testing.T) {
	m := machine(
		[]model.State{initial("a"), st("spin")},
		edge("a", "spin"), edge("spin", "spin"),
	)

	traps := FindTraps(m)
	require.Len(t, traps, 1)
	assert.Equal(t, []string{"spin"}, traps[0].States)
	assert.Equal(t, []string{"spin", "spin"}, traps[0].Cycle)
}

func TestFindTraps_CycleWithExitIsNotTrap(t *testing.T) {
	m := machine(
		[]model.State{initial("a"), st("b"), final("done")},
		edge("a", "b"), edge("b", "a"), edge("b", "done"),
	)

	assert.Empty(t, FindTraps(m))
}

func TestFindTraps_FinalMemberIsNotTrap(t *testing.T) {
	m := machine(
		[]model.State{initial("a"), final("b")},
		edge("a", "b"), edge("b", "a"),
	)

	assert.Empty(t, FindTraps(m))
}

func TestFindTraps_DeadlockIsNotTrap(t *testing.T) {
	m := machine([]model.State{initial("a"), st("stuck")}, edge("a", "stuck"))

	assert.Empty(t, FindTraps(m))
}

func TestFindTraps_ShortestCycle(t *testing.T) {
	m := machine(
		[]model.State{initial("a"), st("b"), st("c"), st("d")},
		edge("a", "b"), edge("b", "c"), edge("b", "d"), edge("c", "b"), edge("d", "a"),
	)

	traps := FindTraps(m)
	require.Len(t, traps, 1)
	assert.Equal(t, []string{"a", "b", "c", "d"}, traps[0].States)
	assert.Equal(t, []string{"a", "b", "d", "a"}, traps[0].Cycle)
}

func TestFindTraps_OrderedByStatePosition(t *testing.T) {
	m := machine(
		[]model.State{initial("s"), st("x"), st("p"), st("q")},
		edge("s", "q"), edge("s", "x"), edge("q", "p"), edge("p", "q"), edge("x", "x"),
	)

	traps := FindTraps(m)
	require.Len(t, traps, 2)
	assert.Equal(t, []string{"x"}, traps[0].States)
	assert.Equal(t, []string{"p", "q"}, traps[1].States)
	assert.Equal(t, []string{"p", "q", "p"}, traps[1].Cycle)
}

func TestFindTraps_NoStates(t *testing.T) {
	traps := FindTraps(&model.StateMachine{})
	assert.NotNil(t, traps)
	assert.Empty(t, traps)
}

func TestFindTraps_Fixtures(t *testing.T) {
	// A cycle with no final state never terminates.
	traps := FindTraps(testutil.TrafficLight())
	require.Len(t, traps, 1)
	assert.Equal(t, []string{"red", "green", "yellow"}, traps[0].States)
	assert.Equal(t, []string{"red", "green", "yellow", "red"}, traps[0].Cycle)

	// locked <-> unlocked can always leave for retired.
	assert.Empty(t, FindTraps(testutil.Turnstile()))
}
