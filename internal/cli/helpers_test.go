package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// doorJSON is valid: jammed is a reachable deadlock and there is no final state.
const doorJSON = `{
  "id": "door",
  "name": "Door",
  "type": "moore",
  "states": [
    {"id": "closed", "name": "Closed", "isInitial": true, "isFinal": false},
    {"id": "open", "name": "Open", "isInitial": false, "isFinal": false},
    {"id": "jammed", "name": "Jammed", "isInitial": false, "isFinal": false}
  ],
  "transitions": [
    {"id": "t1", "from": "closed", "to": "open", "input": "push"},
    {"id": "t2", "from": "open", "to": "closed", "input": "pull"},
    {"id": "t3", "from": "open", "to": "jammed", "input": "kick"}
  ]
}`

// orphanYAML has no initial state.
const orphanYAML = `id: orphan
name: Orphan
type: mealy
states:
  - {id: a, name: A, isInitial: false, isFinal: false}
  - {id: b, name: B, isInitial: false, isFinal: true}
transitions:
  - {id: t1, from: a, to: b}
`

// spinYAML reaches a two-state cycle with no exit, plus a self-looping
// state and an unreachable final state.
const spinYAML = `id: spin
name: Spin
type: mealy
states:
  - {id: start, name: Start, isInitial: true, isFinal: false}
  - {id: ping, name: Ping, isInitial: false, isFinal: false}
  - {id: pong, name: Pong, isInitial: false, isFinal: false}
  - {id: idle, name: Idle, isInitial: false, isFinal: false}
  - {id: done, name: Done, isInitial: false, isFinal: true}
transitions:
  - {id: t1, from: start, to: ping}
  - {id: t2, from: ping, to: pong}
  - {id: t3, from: pong, to: ping}
  - {id: t4, from: start, to: idle}
  - {id: t5, from: idle, to: idle}
`

func writeMachine(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}
