package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsmcheck/internal/compiler"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const inlineMachine = `
machine:
  id: m
  name: M
  type: moore
  states:
    - {id: a, name: A, isInitial: true, isFinal: true}
  transitions: []
`

func TestLoadScenario_Inline(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: inline
description: inline machine
`+inlineMachine+`
expect:
  valid: true
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	require.NotNil(t, s.StateMachine())
	assert.Equal(t, "m", s.StateMachine().ID)
	require.NotNil(t, s.Expect)
	require.NotNil(t, s.Expect.Valid)
	assert.True(t, *s.Expect.Valid)
	assert.Nil(t, s.Expect.Reachable, "absent lists are not checked")
}

func TestLoadScenario_MachineFileRelative(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "machines"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "machines", "m.yaml"), []byte(`
id: fromfile
name: From File
type: mealy
states:
  - {id: a, name: A, isInitial: true, isFinal: false}
transitions: []
`), 0644))

	path := writeScenario(t, dir, `
name: by-file
description: machine from a sibling file
machine_file: machines/m.yaml
reach:
  - target: a
    reachable: true
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", s.StateMachine().ID)
}

func TestLoadScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\n" + inlineMachine + "expect: {valid: true}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\n" + inlineMachine + "expect: {valid: true}\n",
			wantErr: "description is required",
		},
		{
			name:    "no machine",
			content: "name: n\ndescription: d\nexpect: {valid: true}\n",
			wantErr: "one of machine or machine_file is required",
		},
		{
			name:    "both machines",
			content: "name: n\ndescription: d\nmachine_file: x.json\n" + inlineMachine + "expect: {valid: true}\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "nothing to check",
			content: "name: n\ndescription: d\n" + inlineMachine,
			wantErr: "at least one of expect, invariants or reach",
		},
		{
			name:    "invariant without expr",
			content: "name: n\ndescription: d\n" + inlineMachine + "invariants:\n  - holds: true\n",
			wantErr: "invariants[0]: expr is required",
		},
		{
			name:    "failing state on holding invariant",
			content: "name: n\ndescription: d\n" + inlineMachine + "invariants:\n  - {expr: x, holds: true, failing_state: a}\n",
			wantErr: "failing_state requires holds: false",
		},
		{
			name:    "reach without target",
			content: "name: n\ndescription: d\n" + inlineMachine + "reach:\n  - reachable: true\n",
			wantErr: "reach[0]: target is required",
		},
		{
			name:    "unknown field",
			content: "name: n\ndescription: d\n" + inlineMachine + "expect: {valid: true}\nassertions: []\n",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MalformedInlineMachine(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: bad
description: states is not a list
machine:
  id: m
  name: M
  type: moore
  states: {}
  transitions: []
expect:
  valid: true
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.True(t, compiler.IsCompileError(err))
	assert.Equal(t, compiler.ErrWrongShape, compiler.ErrorCode(err))
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
