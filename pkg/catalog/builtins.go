package catalog

import (
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/template"
)

// EffectReconcilePorts is attached to the template text field. The host
// re-derives the node's ports and drops edges that lost their port.
const EffectReconcilePorts = "template.reconcile"

func opts(values ...string) []domain.Option {
	out := make([]domain.Option, 0, len(values)/2)
	for i := 0; i+1 < len(values); i += 2 {
		out = append(out, domain.Option{Value: values[i], Label: values[i+1]})
	}
	return out
}

// Builtins returns the built-in node kinds in palette order.
func Builtins() []domain.NodeSchema {
	return []domain.NodeSchema{
		{
			Kind:        domain.KindInput,
			Title:       "Input",
			Description: "Define an input source",
			Fields: []domain.FieldSpec{
				{Name: "inputName", Label: "Name", Type: domain.FieldText, DefaultValue: "input_1", Placeholder: "Enter input name"},
				{Name: "inputType", Label: "Type", Type: domain.FieldSelect, DefaultValue: "Text", Options: opts("Text", "Text", "File", "File")},
			},
			Outputs: []domain.PortSpec{{ID: "value", Label: "Output", Side: domain.SideRight}},
			Style:   domain.Style{BackgroundColor: "#f0f9ff", Border: "2px solid #0ea5e9", TitleColor: "#0369a1"},
			Palette: domain.PaletteEntry{Label: "Input", Color: "#0ea5e9", Hover: "#0284c7"},
		},
		{
			Kind:        domain.KindLLM,
			Title:       "LLM",
			Description: "Large Language Model",
			Fields: []domain.FieldSpec{
				{Name: "modelName", Label: "Model", Type: domain.FieldSelect, DefaultValue: "GPT-3.5",
					Options: opts("GPT-3.5", "GPT-3.5", "GPT-4", "GPT-4", "Claude", "Claude", "Llama", "Llama")},
			},
			Inputs: []domain.PortSpec{
				{ID: "system", Label: "System", Side: domain.SideLeft, Anchor: "33%"},
				{ID: "prompt", Label: "Prompt", Side: domain.SideLeft, Anchor: "66%"},
			},
			Outputs: []domain.PortSpec{{ID: "response", Label: "Response", Side: domain.SideRight}},
			Style:   domain.Style{BackgroundColor: "#f3e8ff", Border: "2px solid #a855f7", TitleColor: "#7c3aed"},
			Palette: domain.PaletteEntry{Label: "LLM", Color: "#a855f7", Hover: "#9333ea"},
		},
		{
			Kind:        domain.KindOutput,
			Title:       "Output",
			Description: "Define an output destination",
			Fields: []domain.FieldSpec{
				{Name: "outputName", Label: "Name", Type: domain.FieldText, DefaultValue: "output_1", Placeholder: "Enter output name"},
				{Name: "outputType", Label: "Type", Type: domain.FieldSelect, DefaultValue: "Text", Options: opts("Text", "Text", "Image", "Image")},
			},
			Inputs:  []domain.PortSpec{{ID: "value", Label: "Input", Side: domain.SideLeft}},
			Style:   domain.Style{BackgroundColor: "#fef3c7", Border: "2px solid #f59e0b", TitleColor: "#d97706"},
			Palette: domain.PaletteEntry{Label: "Output", Color: "#f59e0b", Hover: "#d97706"},
		},
		Text(),
		{
			Kind:        domain.KindAPI,
			Title:       "API Request",
			Description: "Make HTTP API calls",
			Fields: []domain.FieldSpec{
				{Name: "url", Label: "URL", Type: domain.FieldURL, DefaultValue: "https://api.example.com", Placeholder: "Enter API endpoint"},
				{Name: "method", Label: "Method", Type: domain.FieldSelect, DefaultValue: "GET",
					Options: opts("GET", "GET", "POST", "POST", "PUT", "PUT", "DELETE", "DELETE")},
				{Name: "headers", Label: "Headers", Type: domain.FieldTextarea, DefaultValue: "{}", Placeholder: "JSON headers", Rows: 2},
			},
			Inputs: []domain.PortSpec{{ID: "body", Label: "Request Body", Side: domain.SideLeft}},
			Outputs: []domain.PortSpec{
				{ID: "response", Label: "Response", Side: domain.SideRight, Anchor: "33%"},
				{ID: "status", Label: "Status", Side: domain.SideRight, Anchor: "66%"},
			},
			Style:   domain.Style{BackgroundColor: "#dbeafe", Border: "2px solid #3b82f6", TitleColor: "#1e40af", MinHeight: 180},
			Palette: domain.PaletteEntry{Label: "API", Color: "#3b82f6", Hover: "#2563eb"},
		},
		{
			Kind:        domain.KindDatabase,
			Title:       "Database",
			Description: "Execute database queries",
			Fields: []domain.FieldSpec{
				{Name: "dbType", Label: "Database Type", Type: domain.FieldSelect, DefaultValue: "PostgreSQL",
					Options: opts("PostgreSQL", "PostgreSQL", "MySQL", "MySQL", "MongoDB", "MongoDB", "Redis", "Redis")},
				{Name: "connectionString", Label: "Connection", Type: domain.FieldText, DefaultValue: "localhost:5432", Placeholder: "host:port"},
				{Name: "query", Label: "Query", Type: domain.FieldTextarea, DefaultValue: "SELECT * FROM users", Placeholder: "Enter SQL query", Rows: 3},
			},
			Inputs:  []domain.PortSpec{{ID: "params", Label: "Parameters", Side: domain.SideLeft}},
			Outputs: []domain.PortSpec{{ID: "result", Label: "Result", Side: domain.SideRight}},
			Style:   domain.Style{BackgroundColor: "#fae8ff", Border: "2px solid #d946ef", TitleColor: "#a21caf", MinHeight: 200},
			Palette: domain.PaletteEntry{Label: "Database", Color: "#d946ef", Hover: "#c026d3"},
		},
		{
			Kind:        domain.KindTransform,
			Title:       "Transform",
			Description: "Transform data",
			Fields: []domain.FieldSpec{
				{Name: "operation", Label: "Operation", Type: domain.FieldSelect, DefaultValue: "map",
					Options: opts("map", "Map", "filter", "Filter", "reduce", "Reduce", "sort", "Sort")},
				{Name: "expression", Label: "Expression", Type: domain.FieldTextarea, DefaultValue: "x => x * 2", Placeholder: "Enter transformation logic", Rows: 2},
			},
			Inputs:  []domain.PortSpec{{ID: "input", Label: "Data In", Side: domain.SideLeft}},
			Outputs: []domain.PortSpec{{ID: "output", Label: "Data Out", Side: domain.SideRight}},
			Style:   domain.Style{BackgroundColor: "#fef3c7", Border: "2px solid #f59e0b", TitleColor: "#b45309"},
			Palette: domain.PaletteEntry{Label: "Transform", Color: "#f59e0b", Hover: "#d97706"},
		},
		{
			Kind:        domain.KindFilter,
			Title:       "Filter",
			Description: "Filter data based on conditions",
			Fields: []domain.FieldSpec{
				{Name: "condition", Label: "Condition", Type: domain.FieldSelect, DefaultValue: "equals",
					Options: opts("equals", "Equals", "notEquals", "Not Equals", "contains", "Contains", "greaterThan", "Greater Than", "lessThan", "Less Than")},
				{Name: "value", Label: "Value", Type: domain.FieldText, DefaultValue: "", Placeholder: "Comparison value"},
			},
			Inputs: []domain.PortSpec{{ID: "input", Label: "Data", Side: domain.SideLeft}},
			Outputs: []domain.PortSpec{
				{ID: "match", Label: "Match", Side: domain.SideRight, Anchor: "40%"},
				{ID: "nomatch", Label: "No Match", Side: domain.SideRight, Anchor: "70%"},
			},
			Style:   domain.Style{BackgroundColor: "#fed7aa", Border: "2px solid #ea580c", TitleColor: "#9a3412"},
			Palette: domain.PaletteEntry{Label: "Filter", Color: "#ea580c", Hover: "#c2410c"},
		},
		{
			Kind:        domain.KindMerge,
			Title:       "Merge",
			Description: "Combine multiple inputs",
			Fields: []domain.FieldSpec{
				{Name: "strategy", Label: "Merge Strategy", Type: domain.FieldSelect, DefaultValue: "concat",
					Options: opts("concat", "Concatenate", "merge", "Merge Objects", "zip", "Zip Arrays", "union", "Union")},
				{Name: "separator", Label: "Separator", Type: domain.FieldText, DefaultValue: ", ", Placeholder: "For concat strategy"},
			},
			Inputs: []domain.PortSpec{
				{ID: "input1", Label: "Input 1", Side: domain.SideLeft, Anchor: "25%"},
				{ID: "input2", Label: "Input 2", Side: domain.SideLeft, Anchor: "50%"},
				{ID: "input3", Label: "Input 3", Side: domain.SideLeft, Anchor: "75%"},
			},
			Outputs: []domain.PortSpec{{ID: "output", Label: "Merged", Side: domain.SideRight}},
			Style:   domain.Style{BackgroundColor: "#e0e7ff", Border: "2px solid #6366f1", TitleColor: "#4338ca"},
			Palette: domain.PaletteEntry{Label: "Merge", Color: "#6366f1", Hover: "#4f46e5"},
		},
	}
}

// Text is the template node. Its input ports are not declared; they are
// derived from the placeholders of its text field.
func Text() domain.NodeSchema {
	return domain.NodeSchema{
		Kind:        domain.KindText,
		Title:       "Text",
		Description: "Use {{variableName}} for dynamic inputs",
		Fields: []domain.FieldSpec{
			{Name: domain.TextField, Label: "Text", Type: domain.FieldTextarea, DefaultValue: template.DefaultText, Effect: EffectReconcilePorts},
		},
		Outputs: []domain.PortSpec{{ID: "output", Label: "Output", Side: domain.SideRight}},
		Style: domain.Style{
			BackgroundColor: "#d1fae5",
			Border:          "2px solid #10b981",
			TitleColor:      "#047857",
		},
		Palette: domain.PaletteEntry{Label: "Text", Color: "#10b981", Hover: "#059669"},
	}
}
