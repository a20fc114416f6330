package dsl

import "github.com/aretw0/pipecanvas/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Kind sets the node kind.
func (n *NodeBuilder) Kind(kind string) *NodeBuilder {
	n.node.Type = kind
	return n
}

// Set stores a field value.
func (n *NodeBuilder) Set(field string, value any) *NodeBuilder {
	n.node.Data[field] = value
	return n
}

// Wire connects an output port of this node to an input port of target.
func (n *NodeBuilder) Wire(port, target, targetPort string) *NodeBuilder {
	n.builder.Connect(n.node.ID, port, target, targetPort)
	return n
}

// To adds an edge to target without handles.
func (n *NodeBuilder) To(target string) *NodeBuilder {
	n.builder.Connect(n.node.ID, "", target, "")
	return n
}

// Build returns a copy of the underlying domain.Node.
func (n *NodeBuilder) Build() domain.Node {
	out := n.node
	out.Data = make(map[string]any, len(n.node.Data))
	for k, v := range n.node.Data {
		out.Data[k] = v
	}
	return out
}
