package render

import (
	"strings"

	"github.com/enetx/g"

	"github.com/roach88/fsmcheck/internal/model"
)

// DOT renders m in the Graphviz DOT language.
//
// Initial states get an arrow from an invisible start point, final states
// a double circle. With an overlay, unreachable states are greyed out,
// deadlocks get a red border and pure spin states a dashed one.
// Undeclared transition targets appear as dashed boxes.
func DOT(m *model.StateMachine, overlay *Overlay) string {
	b := g.NewBuilder()

	b.WriteString("digraph \"")
	b.WriteString(quote(m.Name))
	b.WriteString("\" {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(
		"  node [shape=circle, style=filled, fillcolor=\"#f8f8f8\", color=\"#444444\", fontname=\"Helvetica\"];\n",
	)
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	if m.InitialCount() > 0 {
		b.WriteString("  __start [shape=point, style=invis];\n")
		for _, s := range m.States {
			if s.IsInitial {
				b.WriteString(g.Format("  __start -> \"{}\" [label=\" initial\"];\n", quote(s.ID)))
			}
		}
		b.WriteByte('\n')
	}

	for _, s := range m.States {
		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", quote(s.Name)))

		if s.IsFinal {
			attrs.Push("shape=doublecircle")
		}

		switch {
		case overlay.unreachable(s.ID):
			attrs.Push("fillcolor=\"#d3d3d3\"", "fontcolor=\"#777777\"")
		case s.IsInitial:
			attrs.Push("fillcolor=\"#90ee90\"")
		}

		switch {
		case overlay.deadlock(s.ID):
			attrs.Push("color=\"#cc0000\"", "penwidth=2")
		case overlay.livelock(s.ID):
			attrs.Push("style=\"filled,dashed\"")
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", quote(s.ID), attrs.Join(", ")))
	}

	for _, id := range danglingTargets(m) {
		b.WriteString(g.Format("  \"{}\" [label=\"{}\", shape=box, style=dashed];\n", quote(id), quote(id)))
	}

	b.WriteByte('\n')

	for _, e := range groupEdges(m) {
		if len(e.labels) == 0 {
			b.WriteString(g.Format("  \"{}\" -> \"{}\";\n", quote(e.from), quote(e.to)))
			continue
		}
		label := quote(strings.Join(e.labels, "\\n"))
		b.WriteString(g.Format("  \"{}\" -> \"{}\" [label=\" {} \"];\n", quote(e.from), quote(e.to), label))
	}

	b.WriteString("}\n")

	return string(b.String())
}

// quote escapes double quotes for use inside a DOT string.
func quote(s string) g.String {
	return g.String(strings.ReplaceAll(s, `"`, `\"`))
}
