// Package render draws machines as Graphviz DOT or Mermaid state diagrams,
// optionally shaded with verification results (unreachable, deadlock and
// livelock states).
package render
