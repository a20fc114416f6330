package domain

// ControlKind is the widget used to edit a field.
type ControlKind string

const (
	// ControlNone renders nothing. Used for unrecognised field types.
	ControlNone     ControlKind = ""
	ControlInput    ControlKind = "input"
	ControlTextarea ControlKind = "textarea"
	ControlSelect   ControlKind = "select"
	ControlCheckbox ControlKind = "checkbox"
)

// PortRole tells the diagramming surface which end of an edge a port accepts.
type PortRole string

const (
	RoleTarget PortRole = "target"
	RoleSource PortRole = "source"
)

// Control is the descriptor of one editable control.
type Control struct {
	Kind ControlKind `json:"kind"`

	// InputType is the HTML input type for ControlInput (text, email, number, url).
	InputType   string   `json:"inputType,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Rows        int      `json:"rows,omitempty"`
}

// RenderedField is one field with its current value.
type RenderedField struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Value   any     `json:"value"`
	Control Control `json:"control"`
}

// Port is a placed connection point.
type Port struct {
	// ID is the handle identity referenced by edges (see HandleID).
	ID     string   `json:"id"`
	PortID string   `json:"portId"`
	Label  string   `json:"label"`
	Side   Side     `json:"side"`
	Role   PortRole `json:"role"`

	// Top is the CSS vertical offset; Percent is its numeric value when the
	// offset is a percentage, or -1.
	Top     string  `json:"top"`
	Percent float64 `json:"percent"`
}

// RenderedNode is everything the canvas needs to draw one node instance.
type RenderedNode struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Fields      []RenderedField `json:"fields"`
	Inputs      []Port          `json:"inputs"`
	Outputs     []Port          `json:"outputs"`
	Style       Style           `json:"style"`

	// Variables lists the placeholders of a template node, in port order.
	Variables []string `json:"variables,omitempty"`
}

// Input returns the input port with the given port id.
func (n RenderedNode) Input(portID string) (Port, bool) {
	for _, p := range n.Inputs {
		if p.PortID == portID {
			return p, true
		}
	}
	return Port{}, false
}
