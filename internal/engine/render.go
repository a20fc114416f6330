package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/template"
)

// DefaultStyle is the theme every node starts from.
var DefaultStyle = domain.Style{
	Width:           200,
	Height:          "auto",
	MinHeight:       80,
	Border:          "2px solid #1a192b",
	BorderRadius:    "8px",
	Padding:         "10px",
	BackgroundColor: "#fff",
	BoxShadow:       "0 4px 6px rgba(0,0,0,0.1)",
	TitleColor:      "#1a192b",
}

const defaultRows = 3

// Render projects a schema and the stored values of one instance into the
// drawable node. It is pure and never fails: malformed schema data degrades
// to empty controls.
func Render(schema domain.NodeSchema, instanceID string, values map[string]any) domain.RenderedNode {
	n := domain.RenderedNode{
		ID:          instanceID,
		Kind:        schema.Kind,
		Title:       schema.Title,
		Description: schema.Description,
		Fields:      make([]domain.RenderedField, 0, len(schema.Fields)),
		Inputs:      inputPorts(instanceID, schema.Inputs, schema.Outputs),
		Outputs:     placePorts(schema.Outputs, domain.SideRight, domain.RoleSource, outputHandle(instanceID)),
		Style:       ResolveStyle(schema.Style),
	}

	for _, f := range schema.Fields {
		n.Fields = append(n.Fields, renderField(f, values))
	}
	return n
}

// FieldValue applies the value priority: a stored value wins, then the
// declared default, then the empty string. A stored nil counts as absent.
func FieldValue(f domain.FieldSpec, values map[string]any) any {
	if v, ok := values[f.Name]; ok && v != nil {
		return v
	}
	if f.DefaultValue != nil {
		return f.DefaultValue
	}
	return ""
}

func renderField(f domain.FieldSpec, values map[string]any) domain.RenderedField {
	value := FieldValue(f, values)
	ctl := domain.Control{Placeholder: f.Placeholder}

	switch f.Type {
	case domain.FieldText, domain.FieldEmail, domain.FieldNumber, domain.FieldURL:
		ctl.Kind = domain.ControlInput
		ctl.InputType = string(f.Type)
	case domain.FieldTextarea:
		ctl.Kind = domain.ControlTextarea
		ctl.Rows = f.Rows
		if ctl.Rows <= 0 {
			ctl.Rows = defaultRows
		}
	case domain.FieldSelect:
		ctl.Kind = domain.ControlSelect
		ctl.Options = append([]domain.Option{}, f.Options...)
	case domain.FieldCheckbox:
		ctl.Kind = domain.ControlCheckbox
		value = asBool(value)
	default:
		ctl = domain.Control{Kind: domain.ControlNone}
	}

	return domain.RenderedField{
		Name:    f.Name,
		Label:   f.Label,
		Value:   value,
		Control: ctl,
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		return err == nil && parsed
	case int:
		return b != 0
	case float64:
		return b != 0
	default:
		return false
	}
}

// Placement returns the vertical offset of the index-th (0-based) of count
// ports. An explicit anchor wins; otherwise ports are spread evenly at
// 100*(index+1)/(count+1) percent. Percent is -1 when the anchor is not a
// percentage.
func Placement(index, count int, anchor string) (top string, percent float64) {
	if anchor != "" {
		return anchor, parsePercent(anchor)
	}
	p := float64(100*(index+1)) / float64(count+1)
	return strconv.FormatFloat(p, 'f', -1, 64) + "%", p
}

func parsePercent(s string) float64 {
	num, ok := strings.CutSuffix(strings.TrimSpace(s), "%")
	if !ok {
		return -1
	}
	p, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return -1
	}
	return p
}

func inputPorts(instanceID string, specs, outputs []domain.PortSpec) []domain.Port {
	handle := func(portID string) string {
		return domain.InputHandleID(instanceID, portID, outputs)
	}
	return placePorts(specs, domain.SideLeft, domain.RoleTarget, handle)
}

func outputHandle(instanceID string) func(string) string {
	return func(portID string) string {
		return domain.HandleID(instanceID, portID)
	}
}

func placePorts(specs []domain.PortSpec, side domain.Side, role domain.PortRole, handle func(string) string) []domain.Port {
	ports := make([]domain.Port, 0, len(specs))
	for i, spec := range specs {
		top, pct := Placement(i, len(specs), spec.Anchor)
		s := spec.Side
		if s == "" {
			s = side
		}
		ports = append(ports, domain.Port{
			ID:      handle(spec.ID),
			PortID:  spec.ID,
			Label:   spec.Label,
			Side:    s,
			Role:    role,
			Top:     top,
			Percent: pct,
		})
	}
	return ports
}

// DerivedPorts places one left-hand input port per template variable.
// outputs are the node's static outputs, whose handles inputs must not reuse.
func DerivedPorts(instanceID string, vars []string, outputs []domain.PortSpec) []domain.Port {
	specs := make([]domain.PortSpec, len(vars))
	for i, v := range vars {
		specs[i] = domain.PortSpec{ID: v, Label: v}
	}
	return inputPorts(instanceID, specs, outputs)
}

// ResolveStyle overlays the non-zero values of s on DefaultStyle.
func ResolveStyle(s domain.Style) domain.Style {
	out := DefaultStyle
	if s.Width > 0 {
		out.Width = s.Width
	}
	if s.Height != "" {
		out.Height = s.Height
	}
	if s.MinHeight > 0 {
		out.MinHeight = s.MinHeight
	}
	if s.Border != "" {
		out.Border = s.Border
	}
	if s.BorderRadius != "" {
		out.BorderRadius = s.BorderRadius
	}
	if s.Padding != "" {
		out.Padding = s.Padding
	}
	if s.BackgroundColor != "" {
		out.BackgroundColor = s.BackgroundColor
	}
	if s.BoxShadow != "" {
		out.BoxShadow = s.BoxShadow
	}
	if s.TitleColor != "" {
		out.TitleColor = s.TitleColor
	}
	return out
}

// applyTemplate replaces the static inputs of a template node with the ports
// derived from its text and sizes the node to fit the text.
func applyTemplate(n *domain.RenderedNode, outputs []domain.PortSpec, field, text string, vars []string) {
	n.Inputs = DerivedPorts(n.ID, vars, outputs)
	n.Variables = vars

	w, h := template.Dimensions(text)
	n.Style.Width = w
	n.Style.Height = fmt.Sprintf("%dpx", h)

	for i := range n.Fields {
		if n.Fields[i].Name == field && n.Fields[i].Control.Kind == domain.ControlTextarea {
			n.Fields[i].Control.Rows = template.Rows(text)
		}
	}
}

// textValue renders a field value as template text.
func textValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
