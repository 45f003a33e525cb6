package compiler

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Boundary error codes (E200-E299).
// These describe malformed input and are never produced for a well-formed
// machine; structural problems in a well-formed machine are report findings.
const (
	ErrMissingField  = "E201" // required field absent
	ErrWrongType     = "E202" // field present with the wrong type
	ErrWrongShape    = "E203" // expected an object or list
	ErrParseFailed   = "E204" // input is not valid JSON, YAML or CUE
	ErrEmptyDocument = "E205" // input contains no document
)

// CompileError is a boundary failure: the input could not be turned into a
// model.StateMachine. It carries the offending field path and, when the
// decoder knows it, a source position.
type CompileError struct {
	Code    string
	Field   string
	Message string
	File    string
	Line    int
	Column  int
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		file := e.File
		if file == "" {
			file = "<input>"
		}
		return fmt.Sprintf("%s:%d:%d: [%s] %s: %s", file, e.Line, e.Column, e.Code, e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsCompileError reports whether err is (or wraps) a boundary failure.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// ErrorCode extracts the boundary code from err, or "" if err is not a
// CompileError.
func ErrorCode(err error) string {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// withPos copies a CUE source position onto the error.
func (e *CompileError) withPos(pos token.Pos) *CompileError {
	if pos.IsValid() {
		e.File = pos.Filename()
		e.Line = pos.Line()
		e.Column = pos.Column()
	}
	return e
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error, field string) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Code: ErrParseFailed, Field: field, Message: err.Error()}
	}

	first := errs[0]
	ce := &CompileError{Code: ErrParseFailed, Field: field, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.withPos(positions[0])
	}
	return ce
}
