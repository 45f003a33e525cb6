package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// decodeJSONNode builds a yaml.Node tree from JSON input using
// encoding/json's tokenizer, so every JSON escape form is accepted even
// where the YAML scanner is stricter (\/ and surrogate pairs). Node
// positions are computed from byte offsets and match what the YAML parser
// would report for the same document.
func decodeJSONNode(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	w := &jsonWalker{dec: dec, pos: newPositions(data)}
	return w.value()
}

type jsonWalker struct {
	dec *json.Decoder
	pos *positions
}

func (w *jsonWalker) value() (*yaml.Node, error) {
	line, col := w.pos.at(w.dec.InputOffset())
	tok, err := w.dec.Token()
	if err != nil {
		return nil, err
	}

	n := &yaml.Node{Line: line, Column: col}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n.Kind, n.Tag = yaml.MappingNode, "!!map"
		case '[':
			n.Kind, n.Tag = yaml.SequenceNode, "!!seq"
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
		for w.dec.More() {
			if n.Kind == yaml.MappingNode {
				key, err := w.value()
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, key)
			}
			item, err := w.value()
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, item)
		}
		if _, err := w.dec.Token(); err != nil {
			return nil, err
		}
	case string:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, tagString, v
	case json.Number:
		n.Kind, n.Value = yaml.ScalarNode, v.String()
		n.Tag = "!!float"
		if _, err := v.Int64(); err == nil {
			n.Tag = "!!int"
		}
	case bool:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, tagBool, strconv.FormatBool(v)
	case nil:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, tagNull, "null"
	}
	return n, nil
}

// positions maps byte offsets to 1-based line and column numbers.
type positions struct {
	data  []byte
	lines []int
}

func newPositions(data []byte) *positions {
	p := &positions{data: data, lines: []int{0}}
	for i, c := range data {
		if c == '\n' {
			p.lines = append(p.lines, i+1)
		}
	}
	return p
}

// at resolves the start of the next token after off. The decoder reports
// the offset just past the previous token, so separators are skipped.
func (p *positions) at(off int64) (int, int) {
	i := int(off)
	for i < len(p.data) && isJSONSeparator(p.data[i]) {
		i++
	}
	line := sort.Search(len(p.lines), func(k int) bool { return p.lines[k] > i })
	start := p.lines[line-1]
	return line, utf8.RuneCount(p.data[start:i]) + 1
}

func isJSONSeparator(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', ':':
		return true
	}
	return false
}
