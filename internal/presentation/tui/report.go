package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/template"
	"github.com/muesli/termenv"
)

// ParseReport describes a validation result as markdown.
func ParseReport(r domain.ParseResult) string {
	var sb strings.Builder
	sb.WriteString("# Pipeline\n\n")
	sb.WriteString("| Nodes | Edges | DAG |\n|---|---|---|\n")
	fmt.Fprintf(&sb, "| %d | %d | %s |\n", r.NumNodes, r.NumEdges, yesNo(r.IsDAG))
	if w := r.Warning(); w != "" {
		fmt.Fprintf(&sb, "\n> %s\n", w)
	}
	return sb.String()
}

// KindsReport lists the node kinds with their fields and ports as markdown.
func KindsReport(schemas []domain.NodeSchema) string {
	var sb strings.Builder
	sb.WriteString("# Node kinds\n")
	for _, s := range schemas {
		fmt.Fprintf(&sb, "\n## %s (`%s`)\n\n", s.Title, s.Kind)
		if s.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", s.Description)
		}
		if len(s.Fields) > 0 {
			sb.WriteString("| Field | Type | Default |\n|---|---|---|\n")
			for _, f := range s.Fields {
				def := ""
				if f.DefaultValue != nil {
					def = fmt.Sprintf("`%v`", f.DefaultValue)
				}
				fmt.Fprintf(&sb, "| %s | %s | %s |\n", f.Name, f.Type, escapeCell(def))
			}
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- Inputs: %s\n- Outputs: %s\n", portList(s.Inputs), portList(s.Outputs))
	}
	return sb.String()
}

// PortsReport shows the ports a template text derives.
func PortsReport(inf template.Inference) string {
	var sb strings.Builder
	sb.WriteString("# Derived ports\n\n")
	if len(inf.Variables) == 0 {
		sb.WriteString("_No variables._\n")
	}
	for _, v := range inf.Variables {
		fmt.Fprintf(&sb, "- `%s`\n", v)
	}
	fmt.Fprintf(&sb, "\nSize: %d x %d px, %d rows\n", inf.Width, inf.Height, inf.Rows)
	return sb.String()
}

// PrintWarning writes the cycle warning of r to w in red. Nothing is
// written for a DAG.
func PrintWarning(w io.Writer, r domain.ParseResult) {
	msg := r.Warning()
	if msg == "" {
		return
	}
	p := termenv.ColorProfile()
	fmt.Fprintln(w, termenv.String(msg).Foreground(p.Color("#ef4444")).Bold())
}

func portList(ports []domain.PortSpec) string {
	if len(ports) == 0 {
		return "none"
	}
	ids := make([]string, len(ports))
	for i, p := range ports {
		ids[i] = "`" + p.ID + "`"
	}
	return strings.Join(ids, ", ")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
