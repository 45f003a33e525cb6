package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/fsmcheck/internal/compiler"
	"github.com/roach88/fsmcheck/internal/model"
)

// Error code constants - unified across all CLI commands.
// Boundary decoding failures keep their compiler codes (E201-E205).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // File read error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeDatabase    = "E008" // History database error
	ErrCodeInvalidFlag = "E009" // Invalid flag combination

	// Analysis verdicts (exit 1, not input errors)
	ErrCodeInvalidMachine = "E_INVALID"
	ErrCodeUnreachable    = "E_UNREACHABLE"
	ErrCodeViolated       = "E_INVARIANT_VIOLATED"
	ErrCodeTestFailed     = "E_TEST_FAILED"
)

// LoadError represents a failure to load a machine definition file.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadMachine reads and decodes a machine definition. The decoder is
// chosen by extension (.cue, otherwise JSON/YAML).
func LoadMachine(path string) (*model.StateMachine, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("machine file not found: %s", path), Path: path, Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err), Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("expected a file, got directory: %s", path), Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err), Path: path, Err: err}
	}

	m, err := compiler.ParseMachine(data, path)
	if err != nil {
		return nil, convertCompileError(err, path)
	}
	return m, nil
}

// convertCompileError keeps the boundary code and position of a decoding failure.
func convertCompileError(err error, path string) *LoadError {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return &LoadError{Code: ce.Code, Message: ce.Error(), Path: path, Err: err}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%s: %v", path, err), Path: path, Err: err}
}

// reportLoadError writes a load failure and converts it to exit code 2.
func reportLoadError(f *OutputFormatter, err error) error {
	code, msg := ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, msg = loadErr.Code, loadErr.Message
	}
	if outErr := f.Error(code, msg, nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, "failed to load machine", err)
}
