package ports

import (
	"context"
	"testing"

	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunGraphStoreContract runs a suite of tests to verify that a GraphStore
// implementation adheres to the interface contract. newStore must return an
// empty store on every call.
func RunGraphStoreContract(t *testing.T, newStore func(t *testing.T) GraphStore) {
	ctx := context.Background()

	t.Run("AddNode generates per-kind ids", func(t *testing.T) {
		store := newStore(t)

		a, err := store.AddNode(ctx, "llm", nil)
		require.NoError(t, err)
		b, err := store.AddNode(ctx, "llm", nil)
		require.NoError(t, err)
		c, err := store.AddNode(ctx, "text", nil)
		require.NoError(t, err)

		assert.Equal(t, "llm-1", a)
		assert.Equal(t, "llm-2", b)
		assert.Equal(t, "text-1", c)

		kind, err := store.Kind(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, "llm", kind)
	})

	t.Run("Read your writes", func(t *testing.T) {
		store := newStore(t)
		id, err := store.AddNode(ctx, "customInput", map[string]any{"inputName": "seed"})
		require.NoError(t, err)

		v, ok, err := store.GetFieldValue(ctx, id, "inputName")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "seed", v)

		require.NoError(t, store.SetFieldValue(ctx, id, "inputName", "x"))
		v, ok, err = store.GetFieldValue(ctx, id, "inputName")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "x", v)

		_, ok, err = store.GetFieldValue(ctx, id, "inputType")
		require.NoError(t, err)
		assert.False(t, ok, "unset field must be absent")
	})

	t.Run("Values are isolated per instance", func(t *testing.T) {
		store := newStore(t)
		a, _ := store.AddNode(ctx, "customInput", nil)
		b, _ := store.AddNode(ctx, "customInput", nil)

		require.NoError(t, store.SetFieldValue(ctx, a, "inputName", "only-a"))

		_, ok, err := store.GetFieldValue(ctx, b, "inputName")
		require.NoError(t, err)
		assert.False(t, ok)

		values, err := store.FieldValues(ctx, a)
		require.NoError(t, err)
		values["inputName"] = "mutated"
		v, _, _ := store.GetFieldValue(ctx, a, "inputName")
		assert.Equal(t, "only-a", v, "FieldValues must return a copy")
	})

	t.Run("Unknown instance", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Kind(ctx, "missing-1")
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
		_, _, err = store.GetFieldValue(ctx, "missing-1", "x")
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
		assert.ErrorIs(t, store.SetFieldValue(ctx, "missing-1", "x", 1), domain.ErrNodeNotFound)
		assert.ErrorIs(t, store.RemoveNode(ctx, "missing-1"), domain.ErrNodeNotFound)
	})

	t.Run("Connect and Snapshot", func(t *testing.T) {
		store := newStore(t)
		in, _ := store.AddNode(ctx, "customInput", map[string]any{"inputName": "q"})
		out, _ := store.AddNode(ctx, "customOutput", nil)

		e, err := store.Connect(ctx, domain.Edge{
			Source: in, Target: out,
			SourceHandle: domain.HandleID(in, "value"), TargetHandle: domain.HandleID(out, "value"),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, e.ID, "edge id must be assigned")

		_, err = store.Connect(ctx, domain.Edge{Source: in, Target: "missing-1"})
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)

		p, err := store.Snapshot(ctx)
		require.NoError(t, err)
		require.Len(t, p.Nodes, 2)
		assert.Equal(t, in, p.Nodes[0].ID)
		assert.Equal(t, "customInput", p.Nodes[0].Type)
		assert.Equal(t, "q", p.Nodes[0].Data["inputName"])
		assert.NotNil(t, p.Nodes[1].Data)
		require.Len(t, p.Edges, 1)
		assert.Equal(t, e, p.Edges[0])
	})

	t.Run("Disconnect", func(t *testing.T) {
		store := newStore(t)
		a, _ := store.AddNode(ctx, "text", nil)
		b, _ := store.AddNode(ctx, "llm", nil)
		e, err := store.Connect(ctx, domain.Edge{ID: "e1", Source: a, Target: b})
		require.NoError(t, err)
		assert.Equal(t, "e1", e.ID)

		require.NoError(t, store.Disconnect(ctx, "e1"))
		assert.ErrorIs(t, store.Disconnect(ctx, "e1"), domain.ErrEdgeNotFound)

		edges, err := store.Edges(ctx)
		require.NoError(t, err)
		assert.Empty(t, edges)
	})

	t.Run("RemoveNode drops incident edges", func(t *testing.T) {
		store := newStore(t)
		a, _ := store.AddNode(ctx, "customInput", nil)
		b, _ := store.AddNode(ctx, "llm", nil)
		c, _ := store.AddNode(ctx, "customOutput", nil)
		_, _ = store.Connect(ctx, domain.Edge{ID: "ab", Source: a, Target: b})
		_, _ = store.Connect(ctx, domain.Edge{ID: "bc", Source: b, Target: c})
		_, _ = store.Connect(ctx, domain.Edge{ID: "ac", Source: a, Target: c})

		require.NoError(t, store.RemoveNode(ctx, b))

		_, err := store.Kind(ctx, b)
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)

		edges, err := store.Edges(ctx)
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, "ac", edges[0].ID)
	})

	t.Run("PruneInputs", func(t *testing.T) {
		store := newStore(t)
		in, _ := store.AddNode(ctx, "customInput", nil)
		tpl, _ := store.AddNode(ctx, "text", nil)
		_, _ = store.Connect(ctx, domain.Edge{ID: "keep", Source: in, Target: tpl, TargetHandle: domain.HandleID(tpl, "input")})
		_, _ = store.Connect(ctx, domain.Edge{ID: "drop", Source: in, Target: tpl, TargetHandle: domain.HandleID(tpl, "city")})

		removed, err := store.PruneInputs(ctx, tpl, []string{domain.HandleID(tpl, "city")})
		require.NoError(t, err)
		require.Len(t, removed, 1)
		assert.Equal(t, "drop", removed[0].ID)

		removed, err = store.PruneInputs(ctx, tpl, nil)
		require.NoError(t, err)
		assert.Empty(t, removed)

		edges, _ := store.Edges(ctx)
		require.Len(t, edges, 1)
		assert.Equal(t, "keep", edges[0].ID)
	})

	t.Run("PruneInputs keeps outgoing edges", func(t *testing.T) {
		store := newStore(t)
		tpl, _ := store.AddNode(ctx, "text", nil)
		out, _ := store.AddNode(ctx, "customOutput", nil)
		other, _ := store.AddNode(ctx, "text", nil)
		shared := domain.HandleID(tpl, "output")

		_, _ = store.Connect(ctx, domain.Edge{ID: "out", Source: tpl, Target: out, SourceHandle: shared, TargetHandle: domain.HandleID(out, "value")})
		// Same handle string, but it enters another node.
		_, _ = store.Connect(ctx, domain.Edge{ID: "elsewhere", Source: tpl, Target: other, SourceHandle: shared, TargetHandle: shared})
		_, _ = store.Connect(ctx, domain.Edge{ID: "in", Source: other, Target: tpl, TargetHandle: shared})

		removed, err := store.PruneInputs(ctx, tpl, []string{shared})
		require.NoError(t, err)
		require.Len(t, removed, 1)
		assert.Equal(t, "in", removed[0].ID)

		edges, _ := store.Edges(ctx)
		ids := make([]string, len(edges))
		for i, e := range edges {
			ids[i] = e.ID
		}
		assert.Equal(t, []string{"out", "elsewhere"}, ids)
	})
}
