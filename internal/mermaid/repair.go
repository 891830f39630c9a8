// Package mermaid normalizes unreliable Mermaid flowchart text produced by an
// LLM into something a renderer can parse, and derives a parent/child adjacency
// index from the repaired text for interactive highlighting.
package mermaid

import (
	"regexp"
	"strings"
)

// DefaultOrientation is prepended when the source has no graph declaration.
const DefaultOrientation = "graph LR"

var (
	reFence = regexp.MustCompile("```[a-zA-Z]*")

	// An orientation keyword preceded by non-whitespace on the same line is a
	// statement fused onto the end of the previous one.
	reFusedGraph = regexp.MustCompile(`(\S)[ \t]*\b(graph[ \t]+(?:TD|LR)\b)`)

	// classDef fused onto a preceding token, including the ":::subclassDef"
	// case where a style tag runs straight into the keyword. No left word
	// boundary on purpose.
	reFusedClassDef = regexp.MustCompile(`(\S)[ \t]*(classDef\b)`)

	// Orientation declaration with the first node on the same line.
	reDeclTrailing = regexp.MustCompile(`(?m)^([ \t]*graph[ \t]+(?:TD|LR))\b[ \t]+(\S)`)

	reDeclLine = regexp.MustCompile(`^[ \t]*graph[ \t]+(?:TD|LR)\b`)

	reQuotedLabel = regexp.MustCompile(`([\[({])[ \t]*"([^"]*)"[ \t]*([\])}])`)
	reLabelUnsafe = regexp.MustCompile(`[(){}\[\]"';]`)
	reSpaceRun    = regexp.MustCompile(`[ \t]+`)
)

// Repair coerces free-form Mermaid-ish text into parseable flowchart syntax.
// It never fails; the result is best effort and a downstream renderer is the
// one that reports whether it was good enough. Repair is idempotent: applying
// it to already repaired text returns the text unchanged.
func Repair(source string) string {
	s := source

	// 1. Escaped sequences instead of real characters. Must run before any
	// line-oriented rule.
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)

	// 2. Markdown code fences, with or without a language tag.
	s = reFence.ReplaceAllString(s, "")

	// 3-4. Un-fuse statements that lost their line break.
	s = reFusedGraph.ReplaceAllString(s, "$1\n$2")
	s = reFusedClassDef.ReplaceAllString(s, "$1\n$2")

	// 5. Declaration and first node on one line.
	s = reDeclTrailing.ReplaceAllString(s, "$1\n$2")

	// 6. Guarantee the text starts at a graph declaration.
	s = anchorDeclaration(s)

	// 7. Labels must be literal text with no nested delimiters.
	s = reQuotedLabel.ReplaceAllStringFunc(s, cleanLabel)

	// 8. Drop blank lines.
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, ln := range lines {
		if strings.TrimSpace(ln) != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}

// anchorDeclaration discards any preamble before the first graph declaration,
// or prepends a default declaration when there is none. Declarations after
// the first are dropped so the result always holds exactly one; the edges
// that followed them stay and merge into the surviving graph.
func anchorDeclaration(s string) string {
	lines := strings.Split(s, "\n")
	start := -1
	for i, ln := range lines {
		if reDeclLine.MatchString(ln) {
			start = i
			break
		}
	}
	if start < 0 {
		return DefaultOrientation + "\n" + s
	}
	out := lines[start : start+1]
	for _, ln := range lines[start+1:] {
		if reDeclLine.MatchString(ln) {
			continue
		}
		out = append(out, ln)
	}
	return strings.Join(out, "\n")
}

func cleanLabel(m string) string {
	sub := reQuotedLabel.FindStringSubmatch(m)
	if sub == nil {
		return m
	}
	label := reLabelUnsafe.ReplaceAllString(sub[2], " ")
	label = strings.TrimSpace(reSpaceRun.ReplaceAllString(label, " "))
	return sub[1] + `"` + label + `"` + sub[3]
}
