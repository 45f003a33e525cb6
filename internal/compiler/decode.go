package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fsmcheck/internal/model"
)

// YAML core-schema tags the decoder accepts.
const (
	tagString = "!!str"
	tagBool   = "!!bool"
	tagNull   = "!!null"
)

// DecodeMachine parses a JSON or YAML machine definition.
//
// Both formats go through the same yaml.Node walker and share line/column
// positions in error messages. Valid JSON is tokenized by encoding/json so
// that escape handling and duplicate keys (last wins) follow JSON rules.
// Unknown fields are ignored. Scalars must have the exact types of the
// boundary contract: a quoted "true" is not a bool and 1 is not a string.
func DecodeMachine(data []byte) (*model.StateMachine, error) {
	return DecodeMachineFile(data, "")
}

// DecodeMachineFile is DecodeMachine with a file name for error positions.
func DecodeMachineFile(data []byte, filename string) (*model.StateMachine, error) {
	d := &nodeDecoder{file: filename}
	if json.Valid(data) {
		root, err := decodeJSONNode(data)
		if err != nil {
			return nil, &CompileError{Code: ErrParseFailed, Message: err.Error(), File: filename}
		}
		return d.machine(root)
	}

	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CompileError{Code: ErrEmptyDocument, Message: "input contains no document", File: filename}
		}
		return nil, &CompileError{Code: ErrParseFailed, Message: err.Error(), File: filename}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &CompileError{Code: ErrEmptyDocument, Message: "input contains no document", File: filename}
	}
	return d.machine(doc.Content[0])
}

// DecodeMachineNode converts an already-parsed YAML node (for example a
// machine embedded in a scenario file) into a machine.
func DecodeMachineNode(n *yaml.Node, filename string) (*model.StateMachine, error) {
	d := &nodeDecoder{file: filename}
	return d.machine(n)
}

type nodeDecoder struct {
	file string
}

func (d *nodeDecoder) fail(n *yaml.Node, code, field, format string, args ...any) *CompileError {
	ce := &CompileError{
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		File:    d.file,
	}
	if n != nil {
		ce.Line = n.Line
		ce.Column = n.Column
	}
	return ce
}

// lookup returns the value node for key in a mapping node, or nil.
// A repeated key resolves to its last occurrence, as in encoding/json.
func lookup(obj *yaml.Node, key string) *yaml.Node {
	for i := len(obj.Content) - 2; i >= 0; i -= 2 {
		if obj.Content[i].Value == key {
			return resolveAlias(obj.Content[i+1])
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func (d *nodeDecoder) expectMapping(n *yaml.Node, field string) error {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		return d.fail(n, ErrWrongShape, field, "expected an object")
	}
	return nil
}

func (d *nodeDecoder) requireString(obj *yaml.Node, key, path string) (string, error) {
	v := lookup(obj, key)
	if v == nil {
		return "", d.fail(obj, ErrMissingField, path, "required field %q is missing", key)
	}
	if v.Kind != yaml.ScalarNode || v.Tag != tagString {
		return "", d.fail(v, ErrWrongType, path, "must be a string")
	}
	return v.Value, nil
}

func (d *nodeDecoder) optionalString(obj *yaml.Node, key, path string) (string, error) {
	v := lookup(obj, key)
	if v == nil || (v.Kind == yaml.ScalarNode && v.Tag == tagNull) {
		return "", nil
	}
	if v.Kind != yaml.ScalarNode || v.Tag != tagString {
		return "", d.fail(v, ErrWrongType, path, "must be a string")
	}
	return v.Value, nil
}

func (d *nodeDecoder) requireBool(obj *yaml.Node, key, path string) (bool, error) {
	v := lookup(obj, key)
	if v == nil {
		return false, d.fail(obj, ErrMissingField, path, "required field %q is missing", key)
	}
	if v.Kind != yaml.ScalarNode || v.Tag != tagBool {
		return false, d.fail(v, ErrWrongType, path, "must be a boolean")
	}
	var b bool
	if err := v.Decode(&b); err != nil {
		return false, d.fail(v, ErrWrongType, path, "must be a boolean")
	}
	return b, nil
}

func (d *nodeDecoder) requireSequence(obj *yaml.Node, key, path string) ([]*yaml.Node, error) {
	v := lookup(obj, key)
	if v == nil {
		return nil, d.fail(obj, ErrMissingField, path, "required field %q is missing", key)
	}
	if v.Kind != yaml.SequenceNode {
		return nil, d.fail(v, ErrWrongShape, path, "expected a list")
	}
	return v.Content, nil
}

func (d *nodeDecoder) machine(n *yaml.Node) (*model.StateMachine, error) {
	n = resolveAlias(n)
	if err := d.expectMapping(n, "machine"); err != nil {
		return nil, err
	}

	m := &model.StateMachine{}
	var err error

	if m.ID, err = d.requireString(n, "id", "id"); err != nil {
		return nil, err
	}
	if m.Name, err = d.requireString(n, "name", "name"); err != nil {
		return nil, err
	}
	typ, err := d.requireString(n, "type", "type")
	if err != nil {
		return nil, err
	}
	m.Type = model.ParseMachineType(typ)

	states, err := d.requireSequence(n, "states", "states")
	if err != nil {
		return nil, err
	}
	m.States = make([]model.State, 0, len(states))
	for i, sn := range states {
		s, err := d.state(sn, fmt.Sprintf("states[%d]", i))
		if err != nil {
			return nil, err
		}
		m.States = append(m.States, s)
	}

	transitions, err := d.requireSequence(n, "transitions", "transitions")
	if err != nil {
		return nil, err
	}
	m.Transitions = make([]model.Transition, 0, len(transitions))
	for i, tn := range transitions {
		t, err := d.transition(tn, fmt.Sprintf("transitions[%d]", i))
		if err != nil {
			return nil, err
		}
		m.Transitions = append(m.Transitions, t)
	}

	return m, nil
}

func (d *nodeDecoder) state(n *yaml.Node, path string) (model.State, error) {
	var s model.State
	n = resolveAlias(n)
	if err := d.expectMapping(n, path); err != nil {
		return s, err
	}

	var err error
	if s.ID, err = d.requireString(n, "id", path+".id"); err != nil {
		return s, err
	}
	if s.Name, err = d.requireString(n, "name", path+".name"); err != nil {
		return s, err
	}
	if s.IsInitial, err = d.requireBool(n, "isInitial", path+".isInitial"); err != nil {
		return s, err
	}
	if s.IsFinal, err = d.requireBool(n, "isFinal", path+".isFinal"); err != nil {
		return s, err
	}
	return s, nil
}

func (d *nodeDecoder) transition(n *yaml.Node, path string) (model.Transition, error) {
	var t model.Transition
	n = resolveAlias(n)
	if err := d.expectMapping(n, path); err != nil {
		return t, err
	}

	var err error
	if t.ID, err = d.requireString(n, "id", path+".id"); err != nil {
		return t, err
	}
	if t.From, err = d.requireString(n, "from", path+".from"); err != nil {
		return t, err
	}
	if t.To, err = d.requireString(n, "to", path+".to"); err != nil {
		return t, err
	}
	if t.Input, err = d.optionalString(n, "input", path+".input"); err != nil {
		return t, err
	}
	if t.Output, err = d.optionalString(n, "output", path+".output"); err != nil {
		return t, err
	}
	return t, nil
}
