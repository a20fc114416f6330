package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/pipecanvas/pkg/adapters/memory"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromPipeline(t *testing.T) {
	ctx := context.Background()
	store, err := memory.NewFromPipeline(domain.Pipeline{
		Nodes: []domain.Node{
			{ID: "llm-4", Type: "llm", Data: map[string]any{"modelName": "GPT-4"}},
			{ID: "custom", Type: "llm"},
		},
		Edges: []domain.Edge{{ID: "e", Source: "llm-4", Target: "custom"}},
	})
	require.NoError(t, err)

	id, err := store.AddNode(ctx, "llm", nil)
	require.NoError(t, err)
	assert.Equal(t, "llm-5", id)

	v, ok, err := store.GetFieldValue(ctx, "llm-4", "modelName")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "GPT-4", v)

	edges, err := store.Edges(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestNewFromPipeline_Invalid(t *testing.T) {
	_, err := memory.NewFromPipeline(domain.Pipeline{Nodes: []domain.Node{{Type: "llm"}}})
	assert.Error(t, err)

	_, err = memory.NewFromPipeline(domain.Pipeline{
		Nodes: []domain.Node{{ID: "a", Type: "llm"}, {ID: "a", Type: "llm"}},
	})
	assert.Error(t, err)

	_, err = memory.NewFromPipeline(domain.Pipeline{
		Nodes: []domain.Node{{ID: "a", Type: "llm"}},
		Edges: []domain.Edge{{ID: "e", Source: "a", Target: "b"}},
	})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}
