package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/fsmcheck/internal/model"
)

// CompileMachine parses a CUE value into a StateMachine.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
//
// The value should be the machine struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`machine: { id: "door", ... }`)
//	m, err := CompileMachine(v.LookupPath(cue.ParsePath("machine")))
//
// States and transitions keep their list order, which the verifier relies
// on for "first matching" semantics.
func CompileMachine(v cue.Value) (*model.StateMachine, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, "machine")
	}
	if v.IncompleteKind() != cue.StructKind {
		return nil, (&CompileError{Code: ErrWrongShape, Field: "machine", Message: "expected an object"}).withPos(v.Pos())
	}

	m := &model.StateMachine{}
	var err error

	if m.ID, err = cueString(v, "id", "id", true); err != nil {
		return nil, err
	}
	if m.Name, err = cueString(v, "name", "name", true); err != nil {
		return nil, err
	}
	typ, err := cueString(v, "type", "type", true)
	if err != nil {
		return nil, err
	}
	m.Type = model.ParseMachineType(typ)

	states, err := cueList(v, "states")
	if err != nil {
		return nil, err
	}
	for i, sv := range states {
		s, err := compileState(sv, fmt.Sprintf("states[%d]", i))
		if err != nil {
			return nil, err
		}
		m.States = append(m.States, s)
	}

	transitions, err := cueList(v, "transitions")
	if err != nil {
		return nil, err
	}
	for i, tv := range transitions {
		t, err := compileTransition(tv, fmt.Sprintf("transitions[%d]", i))
		if err != nil {
			return nil, err
		}
		m.Transitions = append(m.Transitions, t)
	}

	if m.States == nil {
		m.States = []model.State{}
	}
	if m.Transitions == nil {
		m.Transitions = []model.Transition{}
	}
	return m, nil
}

// CompileMachineSource compiles CUE source text. A top-level "machine"
// field is used when present; otherwise the whole file is the machine.
func CompileMachineSource(src []byte, filename string) (*model.StateMachine, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, "machine")
	}

	if mv := v.LookupPath(cue.ParsePath("machine")); mv.Exists() {
		return CompileMachine(mv)
	}
	return CompileMachine(v)
}

func compileState(v cue.Value, path string) (model.State, error) {
	var s model.State
	if v.IncompleteKind() != cue.StructKind {
		return s, (&CompileError{Code: ErrWrongShape, Field: path, Message: "expected an object"}).withPos(v.Pos())
	}

	var err error
	if s.ID, err = cueString(v, "id", path+".id", true); err != nil {
		return s, err
	}
	if s.Name, err = cueString(v, "name", path+".name", true); err != nil {
		return s, err
	}
	if s.IsInitial, err = cueBool(v, "isInitial", path+".isInitial"); err != nil {
		return s, err
	}
	if s.IsFinal, err = cueBool(v, "isFinal", path+".isFinal"); err != nil {
		return s, err
	}
	return s, nil
}

func compileTransition(v cue.Value, path string) (model.Transition, error) {
	var t model.Transition
	if v.IncompleteKind() != cue.StructKind {
		return t, (&CompileError{Code: ErrWrongShape, Field: path, Message: "expected an object"}).withPos(v.Pos())
	}

	var err error
	if t.ID, err = cueString(v, "id", path+".id", true); err != nil {
		return t, err
	}
	if t.From, err = cueString(v, "from", path+".from", true); err != nil {
		return t, err
	}
	if t.To, err = cueString(v, "to", path+".to", true); err != nil {
		return t, err
	}
	if t.Input, err = cueString(v, "input", path+".input", false); err != nil {
		return t, err
	}
	if t.Output, err = cueString(v, "output", path+".output", false); err != nil {
		return t, err
	}
	return t, nil
}

func cueString(v cue.Value, key, path string, required bool) (string, error) {
	f := v.LookupPath(cue.ParsePath(key))
	if !f.Exists() {
		if required {
			return "", (&CompileError{Code: ErrMissingField, Field: path, Message: fmt.Sprintf("required field %q is missing", key)}).withPos(v.Pos())
		}
		return "", nil
	}
	if !required && f.IncompleteKind() == cue.NullKind {
		return "", nil
	}
	if f.IncompleteKind() != cue.StringKind {
		return "", (&CompileError{Code: ErrWrongType, Field: path, Message: "must be a string"}).withPos(f.Pos())
	}
	s, err := f.String()
	if err != nil {
		return "", (&CompileError{Code: ErrWrongType, Field: path, Message: "must be a concrete string"}).withPos(f.Pos())
	}
	return s, nil
}

func cueBool(v cue.Value, key, path string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(key))
	if !f.Exists() {
		return false, (&CompileError{Code: ErrMissingField, Field: path, Message: fmt.Sprintf("required field %q is missing", key)}).withPos(v.Pos())
	}
	if f.IncompleteKind() != cue.BoolKind {
		return false, (&CompileError{Code: ErrWrongType, Field: path, Message: "must be a boolean"}).withPos(f.Pos())
	}
	b, err := f.Bool()
	if err != nil {
		return false, (&CompileError{Code: ErrWrongType, Field: path, Message: "must be a concrete boolean"}).withPos(f.Pos())
	}
	return b, nil
}

func cueList(v cue.Value, key string) ([]cue.Value, error) {
	f := v.LookupPath(cue.ParsePath(key))
	if !f.Exists() {
		return nil, (&CompileError{Code: ErrMissingField, Field: key, Message: fmt.Sprintf("required field %q is missing", key)}).withPos(v.Pos())
	}
	if f.IncompleteKind() != cue.ListKind {
		return nil, (&CompileError{Code: ErrWrongShape, Field: key, Message: "expected a list"}).withPos(f.Pos())
	}

	iter, err := f.List()
	if err != nil {
		return nil, formatCUEError(err, key)
	}

	var items []cue.Value
	for iter.Next() {
		items = append(items, iter.Value())
	}
	return items, nil
}
