// Package render is a local stand-in for the browser-side diagram renderer:
// it converts a repaired diagram's adjacency index to Graphviz DOT and
// renders SVG. The CLI uses it to validate repaired output and to show the
// offending text when rendering fails.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"opostudy/internal/mermaid"
)

// ToDOT converts the adjacency index (plus declared labels) of a repaired
// diagram to Graphviz DOT. Nodes without a declared label show their id.
func ToDOT(idx *mermaid.Index, labels map[string]string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	for _, id := range idx.Nodes() {
		label := id
		if l, ok := labels[id]; ok && strings.TrimSpace(l) != "" {
			label = l
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, label)
	}

	buf.WriteString("\n")
	for _, src := range idx.Nodes() {
		for _, dst := range idx.Children(src) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", src, dst)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// SVG renders a repaired diagram to SVG. A failure here is the render-failure
// signal the repair pipeline cannot produce on its own; callers surface it
// together with the repaired text for diagnosis.
func SVG(ctx context.Context, repaired string) ([]byte, error) {
	idx := mermaid.BuildIndex(repaired)
	dot := ToDOT(idx, mermaid.Labels(idx, repaired))

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
