package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyStateMachine(t *testing.T) {
	report, err := VerifyStateMachine([]byte(doorJSON))
	require.NoError(t, err)

	assert.True(t, report.IsValid)
	assert.Equal(t, 3, report.TotalStates)
	assert.Equal(t, 3, report.ReachableStates)
	assert.Empty(t, report.Deadlocks)
	assert.Equal(t, "States: 3 (Reachable: 3) | Transitions: 3 | Status: VALID", report.Summary)
}

func TestVerifyStateMachine_DomainErrorsAreNotFailures(t *testing.T) {
	input := `{"id":"m","name":"n","type":"moore",
		"states":[{"id":"a","name":"A","isInitial":false,"isFinal":false}],
		"transitions":[{"id":"t","from":"a","to":"nowhere"}]}`

	report, err := VerifyStateMachine([]byte(input))
	require.NoError(t, err)

	assert.False(t, report.IsValid)
	assert.Equal(t, []string{
		"ERROR: No initial state defined",
		"ERROR: Transition to non-existent state: nowhere",
	}, report.Errors)
}

func TestVerifyStateMachine_BoundaryFailure(t *testing.T) {
	_, err := VerifyStateMachine([]byte(`{"id":"m"}`))
	require.Error(t, err)
	assert.True(t, IsCompileError(err))
}

func TestCheckReachability(t *testing.T) {
	res, err := CheckReachability([]byte(doorJSON), "broken")
	require.NoError(t, err)
	assert.True(t, res.IsReachable)
	assert.Equal(t, "State is reachable", res.Message)

	res, err = CheckReachability([]byte(doorJSON), "attic")
	require.NoError(t, err)
	assert.False(t, res.IsReachable)

	_, err = CheckReachability([]byte(`[]`), "a")
	assert.Equal(t, ErrWrongShape, ErrorCode(err))
}

func TestFindDeadlocks(t *testing.T) {
	input := `{"id":"m","name":"n","type":"moore",
		"states":[
			{"id":"a","name":"A","isInitial":true,"isFinal":false},
			{"id":"b","name":"B","isInitial":false,"isFinal":false}
		],
		"transitions":[]}`

	deadlocks, err := FindDeadlocks([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, deadlocks)

	_, err = FindDeadlocks([]byte(`{`))
	assert.Error(t, err)
}
