package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linearScenario = `name: linear
description: A straight path to a final state.
machine:
  id: linear
  name: Linear
  type: mealy
  states:
    - {id: A, name: Start, isInitial: true, isFinal: false}
    - {id: B, name: Middle, isInitial: false, isFinal: false}
    - {id: C, name: Done, isInitial: false, isFinal: true}
  transitions:
    - {id: t1, from: A, to: B, input: go, output: ack}
    - {id: t2, from: B, to: C, input: go}
expect:
  valid: true
  reachable: [A, B, C]
  deadlocks: []
reach:
  - target: C
    reachable: true
`

const linearGolden = `{"reachable":["A","B","C"],"report":{"deadlocks":[],"errors":[],"isValid":true,"reachableStates":3,"summary":"States: 3 (Reachable: 3) | Transitions: 2 | Status: VALID","totalStates":3,"warnings":[]},"scenario":"linear"}`

const wrongScenario = `name: wrong
description: Expects the wrong deadlocks.
machine:
  id: wrong
  name: Wrong
  type: moore
  states:
    - {id: a, name: A, isInitial: true, isFinal: false}
    - {id: b, name: B, isInitial: false, isFinal: false}
  transitions:
    - {id: t1, from: a, to: b}
expect:
  deadlocks: []
`

func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func newTestCmd(format string, args ...string) (*bytes.Buffer, func() error) {
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, run := newTestCmd("text")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, run := newTestCmd("text", "/nonexistent/scenarios")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	buf, run := newTestCmd("text", t.TempDir())

	require.NoError(t, run())
	assert.Contains(t, buf.String(), "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	buf, run := newTestCmd("json", t.TempDir())

	require.NoError(t, run())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestCommandPassWithoutGolden(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"linear.yaml": linearScenario})
	buf, run := newTestCmd("text", dir)

	require.NoError(t, run())
	assert.Contains(t, buf.String(), "✓ linear")
	assert.Contains(t, buf.String(), "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, buf.String(), "✓ All scenarios passed")
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"linear.yaml": linearScenario})
	buf, run := newTestCmd("text", dir, "--update")

	require.NoError(t, run())
	assert.Contains(t, buf.String(), "✓ linear (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "linear.golden"))
	require.NoError(t, err)
	assert.Equal(t, linearGolden, string(golden))

	// A second run compares against the file it just wrote.
	buf, run = newTestCmd("text", dir)
	require.NoError(t, run())
	assert.Contains(t, buf.String(), "✓ linear")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"linear.yaml": linearScenario})
	goldenDir := filepath.Join(dir, "golden")
	require.NoError(t, os.MkdirAll(goldenDir, 0755))
	stale := strings.Replace(linearGolden, `"reachableStates":3`, `"reachableStates":2`, 1)
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "linear.golden"), []byte(stale), 0644))

	buf, run := newTestCmd("text", dir)

	err := run()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "report does not match golden file")
}

func TestTestCommandGoldenDirFlag(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"linear.yaml": linearScenario})
	goldenDir := filepath.Join(t.TempDir(), "elsewhere")

	_, run := newTestCmd("text", dir, "--update", "--golden-dir", goldenDir)
	require.NoError(t, run())

	assert.FileExists(t, filepath.Join(goldenDir, "linear.golden"))
	assert.NoFileExists(t, filepath.Join(dir, "golden", "linear.golden"))
}

func TestTestCommandGoldenDirFromConfig(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"linear.yaml": linearScenario})
	goldenDir := filepath.Join(t.TempDir(), "configured")

	cmd := NewTestCommand(&RootOptions{Format: "text", GoldenDir: goldenDir})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{dir, "--update"})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(goldenDir, "linear.golden"))
}

func TestTestCommandFailureJSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"linear.yaml": linearScenario,
		"wrong.yaml":  wrongScenario,
	})
	buf, run := newTestCmd("json", dir)

	err := run()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp response[TestResult]
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, 2, resp.Data.Total)

	var wrong ScenarioResult
	for _, s := range resp.Data.Scenarios {
		if s.Name == "wrong" {
			wrong = s
		}
	}
	assert.False(t, wrong.Pass)
	assert.Equal(t, []string{"expect.deadlocks: expected [], got [b]"}, wrong.Errors)
}

func TestTestCommandLoadError(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"broken.yaml": "name: broken\n"})
	buf, run := newTestCmd("text", dir)

	err := run()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "✗ broken.yaml")
	assert.Contains(t, buf.String(), "failed to load scenario")
}

func TestTestCommandFilter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"linear.yaml": linearScenario,
		"wrong.yaml":  wrongScenario,
	})
	buf, run := newTestCmd("text", dir, "--filter", "lin*")

	require.NoError(t, run())
	assert.Contains(t, buf.String(), "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestHelpText(t *testing.T) {
	buf, run := newTestCmd("text", "--help")

	require.NoError(t, run())

	output := buf.String()
	assert.Contains(t, output, "scenarios")
	assert.Contains(t, output, "--update")
	assert.Contains(t, output, "--filter")
	assert.Contains(t, output, "--golden-dir")
}

func TestFindScenarioFiles(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test2.yml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ignore.txt"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "door-open.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "door-jam.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "turnstile.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "door-*")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	for _, f := range files {
		assert.True(t, strings.HasPrefix(filepath.Base(f), "door-"), "unexpected file %s", f)
	}
}

func TestFindScenarioFilesInvalidFilter(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.yaml"), []byte(""), 0644))

	_, err := findScenarioFiles(tmpDir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestFindScenarioFilesSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "subdir")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "root.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(subDir, "sub.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestTestOptionsGoldenDir(t *testing.T) {
	opts := &TestOptions{RootOptions: &RootOptions{}}
	assert.Equal(t, filepath.Join("scen", "golden"), opts.goldenDir("scen"))

	opts.GoldenDir = "from-env"
	assert.Equal(t, "from-env", opts.goldenDir("scen"))

	opts.GoldenDirFlag = "from-flag"
	assert.Equal(t, "from-flag", opts.goldenDir("scen"))
}
