package domain

// Node is a node instance as it travels on the wire. Data is exactly the
// instance's field values; derived state such as inferred ports is never
// included.
type Node struct {
	ID   string         `json:"id"`
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Edge connects an output handle of one node to an input handle of another.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Pipeline is the payload submitted to the validation backend.
type Pipeline struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ParseResult is the validation backend's answer.
type ParseResult struct {
	NumNodes int  `json:"num_nodes"`
	NumEdges int  `json:"num_edges"`
	IsDAG    bool `json:"is_dag"`
}

// Warning returns the notice to show the user, or "" when the pipeline is a DAG.
// A cyclic pipeline is still accepted for display.
func (r ParseResult) Warning() string {
	if r.IsDAG {
		return ""
	}
	return DAGWarning
}
