package render

import (
	"strings"

	"github.com/enetx/g"

	"github.com/roach88/fsmcheck/internal/model"
)

// Mermaid renders m as a Mermaid stateDiagram-v2.
// With an overlay, unreachable, deadlock and livelock states receive
// classDef styles.
func Mermaid(m *model.StateMachine, overlay *Overlay) string {
	b := g.NewBuilder()
	b.WriteString("stateDiagram-v2\n")

	for _, s := range m.States {
		b.WriteString(g.Format("    state \"{}\" as {}\n", mermaidLabel(s.Name), sanitizeMermaidID(s.ID)))
	}
	for _, id := range danglingTargets(m) {
		b.WriteString(g.Format("    state \"{} (undeclared)\" as {}\n", mermaidLabel(id), sanitizeMermaidID(id)))
	}

	for _, s := range m.States {
		if s.IsInitial {
			b.WriteString(g.Format("    [*] --> {}\n", sanitizeMermaidID(s.ID)))
		}
	}

	for _, e := range groupEdges(m) {
		from, to := sanitizeMermaidID(e.from), sanitizeMermaidID(e.to)
		if len(e.labels) == 0 {
			b.WriteString(g.Format("    {} --> {}\n", from, to))
			continue
		}
		b.WriteString(g.Format("    {} --> {} : {}\n", from, to, mermaidLabel(strings.Join(e.labels, ", "))))
	}

	for _, s := range m.States {
		if s.IsFinal {
			b.WriteString(g.Format("    {} --> [*]\n", sanitizeMermaidID(s.ID)))
		}
	}

	if overlay != nil {
		b.WriteString(mermaidOverlay(m, overlay))
	}

	return string(b.String())
}

func mermaidOverlay(m *model.StateMachine, overlay *Overlay) g.String {
	var unreachable, deadlocks, livelocks g.Slice[g.String]
	for _, s := range m.States {
		id := g.String(sanitizeMermaidID(s.ID))
		if overlay.unreachable(s.ID) {
			unreachable.Push(id)
		}
		if overlay.deadlock(s.ID) {
			deadlocks.Push(id)
		} else if overlay.livelock(s.ID) {
			livelocks.Push(id)
		}
	}

	b := g.NewBuilder()
	b.WriteString("\n    %% Verification overlay\n")
	b.WriteString("    classDef unreachable fill:#eeeeee,stroke:#999999,color:#777777;\n")
	b.WriteString("    classDef deadlock stroke:#cc0000,stroke-width:3px,color:#000;\n")
	b.WriteString("    classDef livelock stroke:#f57c00,stroke-dasharray:5 5,color:#000;\n")

	for _, group := range []struct {
		class string
		ids   g.Slice[g.String]
	}{
		{"unreachable", unreachable},
		{"deadlock", deadlocks},
		{"livelock", livelocks},
	} {
		if len(group.ids) > 0 {
			b.WriteString(g.Format("    class {} {}\n", group.ids.Join(","), group.class))
		}
	}
	return b.String()
}

// mermaidLabel drops characters that terminate Mermaid labels.
func mermaidLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
