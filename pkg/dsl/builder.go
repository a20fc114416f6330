package dsl

import (
	"fmt"
	"maps"

	"github.com/aretw0/pipecanvas/pkg/adapters/memory"
	"github.com/aretw0/pipecanvas/pkg/domain"
)

// Builder manages the pipeline construction. Nodes and edges keep the order
// they were added in.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
	edges []domain.Edge
}

// New creates a new pipeline builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the pipeline.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:   id,
			Data: map[string]any{},
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Connect adds an edge between two ports. Empty port ids leave the handle
// unset.
func (b *Builder) Connect(source, sourcePort, target, targetPort string) *Builder {
	e := domain.Edge{
		ID:     fmt.Sprintf("e%d", len(b.edges)+1),
		Source: source,
		Target: target,
	}
	if sourcePort != "" {
		e.SourceHandle = domain.HandleID(source, sourcePort)
	}
	if targetPort != "" {
		e.TargetHandle = domain.HandleID(target, targetPort)
	}
	b.edges = append(b.edges, e)
	return b
}

// Pipeline returns the wire payload. The result does not share maps with
// the builder.
func (b *Builder) Pipeline() domain.Pipeline {
	p := domain.Pipeline{
		Nodes: make([]domain.Node, 0, len(b.order)),
		Edges: append([]domain.Edge{}, b.edges...),
	}
	for _, id := range b.order {
		n := b.nodes[id].node
		n.Data = maps.Clone(n.Data)
		p.Nodes = append(p.Nodes, n)
	}
	return p
}

// Build loads the pipeline into an in-memory graph store.
func (b *Builder) Build() (*memory.Store, error) {
	store, err := memory.NewFromPipeline(b.Pipeline())
	if err != nil {
		return nil, fmt.Errorf("failed to build memory store: %w", err)
	}
	return store, nil
}
