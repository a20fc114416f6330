package domain

// FieldType selects the control used to edit a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldURL      FieldType = "url"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
)

// Side is the edge of the node a port is attached to.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Option is one entry of a select field.
type Option struct {
	Value string `json:"value" yaml:"value" mapstructure:"value"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// FieldSpec describes one editable field of a node kind.
// Name is the storage key and must be unique within the schema.
type FieldSpec struct {
	Name         string    `json:"name" yaml:"name" mapstructure:"name"`
	Label        string    `json:"label" yaml:"label" mapstructure:"label"`
	Type         FieldType `json:"type" yaml:"type" mapstructure:"type"`
	DefaultValue any       `json:"defaultValue,omitempty" yaml:"default,omitempty" mapstructure:"default"`
	Placeholder  string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty" mapstructure:"placeholder"`
	Options      []Option  `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
	Rows         int       `json:"rows,omitempty" yaml:"rows,omitempty" mapstructure:"rows"`

	// Effect names a side-effect the host runs after the value is committed.
	// Unknown tags are ignored.
	Effect string `json:"effect,omitempty" yaml:"effect,omitempty" mapstructure:"effect"`
}

// PortSpec describes a statically declared connection point.
type PortSpec struct {
	ID    string `json:"id" yaml:"id" mapstructure:"id"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	Side  Side   `json:"side,omitempty" yaml:"side,omitempty" mapstructure:"side"`

	// Anchor overrides the vertical placement (e.g. "33%").
	// When empty the port is distributed evenly among its siblings.
	Anchor string `json:"anchor,omitempty" yaml:"anchor,omitempty" mapstructure:"anchor"`
}

// Style holds the visual theme of a node kind. Zero values fall back to the
// renderer defaults.
type Style struct {
	Width           int    `json:"width,omitempty" yaml:"width,omitempty" mapstructure:"width"`
	Height          string `json:"height,omitempty" yaml:"height,omitempty" mapstructure:"height"`
	MinHeight       int    `json:"minHeight,omitempty" yaml:"min_height,omitempty" mapstructure:"min_height"`
	Border          string `json:"border,omitempty" yaml:"border,omitempty" mapstructure:"border"`
	BorderRadius    string `json:"borderRadius,omitempty" yaml:"border_radius,omitempty" mapstructure:"border_radius"`
	Padding         string `json:"padding,omitempty" yaml:"padding,omitempty" mapstructure:"padding"`
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"background,omitempty" mapstructure:"background"`
	BoxShadow       string `json:"boxShadow,omitempty" yaml:"box_shadow,omitempty" mapstructure:"box_shadow"`
	TitleColor      string `json:"titleColor,omitempty" yaml:"title_color,omitempty" mapstructure:"title_color"`
}

// PaletteEntry is how a kind appears in the drag-and-drop toolbar.
type PaletteEntry struct {
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	Color string `json:"color,omitempty" yaml:"color,omitempty" mapstructure:"color"`
	Hover string `json:"hover,omitempty" yaml:"hover,omitempty" mapstructure:"hover"`
}

// NodeSchema is the immutable description of one node kind.
type NodeSchema struct {
	Kind        string       `json:"kind" yaml:"kind" mapstructure:"kind"`
	Title       string       `json:"title" yaml:"title" mapstructure:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Fields      []FieldSpec  `json:"fields" yaml:"fields" mapstructure:"fields"`
	Inputs      []PortSpec   `json:"inputs,omitempty" yaml:"inputs,omitempty" mapstructure:"inputs"`
	Outputs     []PortSpec   `json:"outputs,omitempty" yaml:"outputs,omitempty" mapstructure:"outputs"`
	Style       Style        `json:"style" yaml:"style,omitempty" mapstructure:"style"`
	Palette     PaletteEntry `json:"palette" yaml:"palette,omitempty" mapstructure:"palette"`
}

// Field returns the named field's definition.
func (s NodeSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// HandleID is the stable identity of a rendered port. Edges reference ports
// through it, so it only depends on the instance and the port's cause.
func HandleID(instanceID, portID string) string {
	return instanceID + "-" + portID
}

// InputHandleID is the handle of an input port. It equals HandleID unless an
// output of the same node already owns portID; then the side is part of the
// identity, so a variable named like an output never shares its handle.
func InputHandleID(instanceID, portID string, outputs []PortSpec) string {
	for _, o := range outputs {
		if o.ID == portID {
			return instanceID + "-" + string(SideLeft) + "-" + portID
		}
	}
	return HandleID(instanceID, portID)
}
