package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "fsmcheck", cmd.Use)
	assert.Contains(t, cmd.Long, "Mealy and Moore")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"verify", "reach", "deadlocks", "invariant", "inspect", "graph", "history", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)

	envFileFlag := cmd.PersistentFlags().Lookup("env-file")
	require.NotNil(t, envFileFlag)
	assert.Equal(t, "", envFileFlag.DefValue)
}

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fsmcheck.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEnvFileSetsDefaults(t *testing.T) {
	unsetEnv(t, "FSMCHECK_FORMAT")
	unsetEnv(t, "FSMCHECK_LOG_LEVEL")
	envFile := writeEnvFile(t, "FSMCHECK_FORMAT=json\nFSMCHECK_LOG_LEVEL=warn\n")
	path := writeMachine(t, "door.json", doorJSON)

	out, err := execute(t, "--env-file", envFile, "verify", path)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "format from env file: %s", out)
}

func TestEnvFileFlagsWin(t *testing.T) {
	unsetEnv(t, "FSMCHECK_FORMAT")
	envFile := writeEnvFile(t, "FSMCHECK_FORMAT=json\n")
	path := writeMachine(t, "door.json", doorJSON)

	out, err := execute(t, "--env-file", envFile, "--format", "text", "verify", path)
	require.NoError(t, err)
	assert.False(t, json.Valid([]byte(out)))
}

func TestEnvFileInvalidValue(t *testing.T) {
	unsetEnv(t, "FSMCHECK_LOG_LEVEL")
	envFile := writeEnvFile(t, "FSMCHECK_LOG_LEVEL=loud\n")
	path := writeMachine(t, "door.json", doorJSON)

	_, err := execute(t, "--env-file", envFile, "verify", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEnvFileMissing(t *testing.T) {
	path := writeMachine(t, "door.json", doorJSON)

	_, err := execute(t, "--env-file", filepath.Join(t.TempDir(), "nope.env"), "verify", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--env-file")
}

func TestEnvironmentDefaults(t *testing.T) {
	t.Setenv("FSMCHECK_FORMAT", "json")
	t.Setenv("FSMCHECK_DB", "/tmp/history.db")
	cmd := NewRootCommand()

	assert.Equal(t, "json", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "/tmp/history.db", cmd.PersistentFlags().Lookup("db").DefValue)
}

func TestVerifyCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	verifyCmd, _, err := cmd.Find([]string{"verify"})
	require.NoError(t, err)

	recordFlag := verifyCmd.Flags().Lookup("record")
	require.NotNil(t, recordFlag)
	assert.Equal(t, "false", recordFlag.DefValue)
}

func TestInvariantCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	invCmd, _, err := cmd.Find([]string{"invariant"})
	require.NoError(t, err)

	exprFlag := invCmd.Flags().Lookup("expr")
	require.NotNil(t, exprFlag)
	assert.Equal(t, "", exprFlag.DefValue)
}

func TestGraphCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	graphCmd, _, err := cmd.Find([]string{"graph"})
	require.NoError(t, err)

	styleFlag := graphCmd.Flags().Lookup("style")
	require.NotNil(t, styleFlag)
	assert.Equal(t, "dot", styleFlag.DefValue)

	overlayFlag := graphCmd.Flags().Lookup("overlay")
	require.NotNil(t, overlayFlag)
	assert.Equal(t, "true", overlayFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	require.NotNil(t, testCmd.Flags().Lookup("filter"))
	require.NotNil(t, testCmd.Flags().Lookup("golden-dir"))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	path := writeMachine(t, "door.json", doorJSON)

	_, err := execute(t, "--format", "invalid", "verify", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("FSMCHECK_LOG_LEVEL", "loud")
	path := writeMachine(t, "door.json", doorJSON)

	_, err := execute(t, "verify", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
