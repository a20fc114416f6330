// Package graph exports a pipeline as Mermaid or Graphviz DOT text.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/pipecanvas/pkg/domain"
)

// Overlay marks nodes to highlight on top of the plain graph.
type Overlay struct {
	// Cyclic lists nodes that sit on or behind a cycle.
	Cyclic []string
}

// GenerateMermaid produces a Mermaid flowchart (graph LR) for a pipeline.
// Node shapes follow the kind:
// - Input/Output: ([Stadium])
// - LLM: [[Subroutine]]
// - Text: [/Parallelogram/]
// - Default: [Rectangle]
// Edges are labelled with their port names when handles are set.
func GenerateMermaid(p domain.Pipeline, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, node := range p.Nodes {
		opener, closer := "[", "]"
		switch node.Type {
		case domain.KindInput, domain.KindOutput:
			opener, closer = "([", "])"
		case domain.KindLLM:
			opener, closer = "[[", "]]"
		case domain.KindText:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(node.ID), opener, node.ID, closer)
	}

	for _, e := range p.Edges {
		arrow := "-->"
		if label := edgeLabel(e); label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(label, "\"", "'"))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target))
	}

	if overlay != nil && len(overlay.Cyclic) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef cyclic fill:#ffebee,stroke:#c62828,stroke-width:3px,color:#000;\n")
		seen := make(map[string]bool)
		for _, id := range overlay.Cyclic {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s cyclic;\n", safeID)
			}
		}
	}

	return sb.String()
}

// edgeLabel names the ports an edge joins, "out → in", dropping the
// instance prefix of each handle.
func edgeLabel(e domain.Edge) string {
	src := strings.TrimPrefix(e.SourceHandle, e.Source+"-")
	dst := strings.TrimPrefix(e.TargetHandle, e.Target+"-")
	switch {
	case src == "" && dst == "":
		return ""
	case src == "":
		return dst
	case dst == "":
		return src
	}
	return src + " → " + dst
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
