package graph_test

import (
	"testing"

	"github.com/aretw0/pipecanvas/internal/presentation/graph"
	"github.com/aretw0/pipecanvas/pkg/domain"
	gographviz "github.com/awalterschulze/gographviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDOT_ParsesBack(t *testing.T) {
	p := domain.Pipeline{
		Nodes: []domain.Node{
			{ID: "customInput-1", Type: domain.KindInput},
			{ID: "text-1", Type: domain.KindText},
			{ID: "llm-1", Type: domain.KindLLM},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "customInput-1", Target: "text-1", SourceHandle: "customInput-1-value", TargetHandle: "text-1-input"},
			{ID: "e2", Source: "text-1", Target: "llm-1"},
		},
	}

	out, err := graph.GenerateDOT(p, &graph.Overlay{Cyclic: []string{"llm-1"}})
	require.NoError(t, err)

	g, err := gographviz.Read([]byte(out))
	require.NoError(t, err)
	assert.True(t, g.Directed)
	assert.Len(t, g.Nodes.Nodes, 3)
	assert.Len(t, g.Edges.Edges, 2)

	llm := g.Nodes.Lookup[`"llm-1"`]
	require.NotNil(t, llm)
	assert.Equal(t, "filled", llm.Attrs["style"])
	assert.Equal(t, "box3d", llm.Attrs["shape"])
}

func TestGenerateDOT_Empty(t *testing.T) {
	out, err := graph.GenerateDOT(domain.Pipeline{}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph pipeline")
}
