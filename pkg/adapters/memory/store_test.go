package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/pipecanvas/pkg/adapters/memory"
	"github.com/aretw0/pipecanvas/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunGraphStoreContract(t, func(t *testing.T) ports.GraphStore {
		return memory.NewStore()
	})
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := store.AddNode(ctx, "text", nil)
			assert.NoError(t, err)
			assert.NoError(t, store.SetFieldValue(ctx, id, "text", fmt.Sprintf("{{v%d}}", i)))
		}(i)
	}
	wg.Wait()

	p, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, p.Nodes, 50)

	seen := map[string]bool{}
	for _, n := range p.Nodes {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestMemoryStore_EmptySnapshot(t *testing.T) {
	p, err := memory.NewStore().Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, p.Nodes)
	assert.NotNil(t, p.Edges)
}
