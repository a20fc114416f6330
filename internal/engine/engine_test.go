package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/pipecanvas/pkg/adapters/memory"
	"github.com/aretw0/pipecanvas/pkg/adapters/redis"
	"github.com/aretw0/pipecanvas/pkg/catalog"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/effects"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore logs the order of writes so tests can check when effects run.
type recordingStore struct {
	*memory.Store
	mu     sync.Mutex
	events []string
	failOn string
}

func (s *recordingStore) SetFieldValue(ctx context.Context, id, field string, value any) error {
	if field == s.failOn {
		return errors.New("disk full")
	}
	s.record("set:" + field)
	return s.Store.SetFieldValue(ctx, id, field, value)
}

func (s *recordingStore) record(ev string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func newEngine(t *testing.T, opts ...Option) (*Engine, *recordingStore) {
	t.Helper()
	store := &recordingStore{Store: memory.NewStore()}
	return New(store, opts...), store
}

func TestEngine_RenderNode_Defaults(t *testing.T) {
	ctx := context.Background()
	eng, _ := newEngine(t)

	id, err := eng.AddNode(ctx, domain.KindOutput)
	require.NoError(t, err)
	assert.Equal(t, "customOutput-1", id)

	n, err := eng.RenderNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "output_1", fieldByName(t, n, "outputName").Value)
	require.Len(t, n.Inputs, 1)
	assert.Equal(t, "50%", n.Inputs[0].Top)
}

func TestEngine_AddNode_UnknownKind(t *testing.T) {
	eng, _ := newEngine(t)
	_, err := eng.AddNode(context.Background(), "spaceship")
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestEngine_RenderNode_NotFound(t *testing.T) {
	eng, _ := newEngine(t)
	_, err := eng.RenderNode(context.Background(), "llm-9")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestEngine_OnEdit_WritesThrough(t *testing.T) {
	ctx := context.Background()
	eng, store := newEngine(t)
	id, _ := eng.AddNode(ctx, domain.KindInput)

	require.NoError(t, eng.OnEdit(ctx, id, "inputName", "question"))

	v, ok, err := store.GetFieldValue(ctx, id, "inputName")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "question", v)
	assert.Equal(t, map[string]any{"inputName": "question"}, eng.LocalState(id))

	n, err := eng.RenderNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "question", fieldByName(t, n, "inputName").Value)
	assert.Equal(t, "Text", fieldByName(t, n, "inputType").Value)
}

func TestEngine_OnEdit_UndeclaredFieldIsIsolated(t *testing.T) {
	ctx := context.Background()
	eng, store := newEngine(t)
	id, _ := eng.AddNode(ctx, domain.KindInput)
	require.NoError(t, eng.OnEdit(ctx, id, "inputName", "kept"))

	require.NoError(t, eng.OnEdit(ctx, id, "bogus", "ignored"))

	values, err := store.FieldValues(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"inputName": "kept"}, values)
	assert.NotContains(t, eng.LocalState(id), "bogus")
}

func TestEngine_OnEdit_StoreFailureRestoresLocalState(t *testing.T) {
	ctx := context.Background()
	eng, store := newEngine(t)
	id, _ := eng.AddNode(ctx, domain.KindInput)
	store.failOn = "inputName"

	err := eng.OnEdit(ctx, id, "inputName", "lost")
	assert.Error(t, err)
	assert.Empty(t, eng.LocalState(id))
}

func TestEngine_OnEdit_EffectObservesCommittedState(t *testing.T) {
	ctx := context.Background()
	c := catalog.New()
	c.Register(domain.NodeSchema{
		Kind:   "probe",
		Fields: []domain.FieldSpec{{Name: "v", Type: domain.FieldText, Effect: "probe.read"}},
	})

	reg := effects.NewRegistry()
	eng, store := newEngine(t, WithCatalog(c), WithEffects(reg))

	var observed any
	var local any
	reg.Register("probe.read", func(ctx context.Context, call effects.Call) error {
		store.record("effect")
		observed, _, _ = store.GetFieldValue(ctx, call.InstanceID, call.Field)
		local = eng.instances[call.InstanceID].local[call.Field]
		return nil
	})

	id, err := eng.AddNode(ctx, "probe")
	require.NoError(t, err)
	require.NoError(t, eng.OnEdit(ctx, id, "v", "new"))

	assert.Equal(t, "new", observed)
	assert.Equal(t, "new", local)
	assert.Equal(t, []string{"set:v", "effect"}, store.events)
}

func TestEngine_OnEdit_UnknownEffectIsSkipped(t *testing.T) {
	ctx := context.Background()
	c := catalog.New()
	c.Register(domain.NodeSchema{
		Kind:   "k",
		Fields: []domain.FieldSpec{{Name: "v", Type: domain.FieldText, Effect: "nobody.home"}},
	})
	eng, store := newEngine(t, WithCatalog(c))
	id, _ := eng.AddNode(ctx, "k")

	require.NoError(t, eng.OnEdit(ctx, id, "v", "x"))
	v, _, _ := store.GetFieldValue(ctx, id, "v")
	assert.Equal(t, "x", v)
}

func TestEngine_OnEdit_EffectError(t *testing.T) {
	ctx := context.Background()
	c := catalog.New()
	c.Register(domain.NodeSchema{
		Kind:   "k",
		Fields: []domain.FieldSpec{{Name: "v", Type: domain.FieldText, Effect: "fail"}},
	})
	reg := effects.NewRegistry()
	boom := errors.New("boom")
	reg.Register("fail", func(context.Context, effects.Call) error { return boom })
	eng, store := newEngine(t, WithCatalog(c), WithEffects(reg))
	id, _ := eng.AddNode(ctx, "k")

	err := eng.OnEdit(ctx, id, "v", "x")
	assert.ErrorIs(t, err, boom)

	v, _, _ := store.GetFieldValue(ctx, id, "v")
	assert.Equal(t, "x", v, "the value stays committed")
}

func TestEngine_OnEdit_SerializedPerInstance(t *testing.T) {
	ctx := context.Background()
	c := catalog.New()
	c.Register(domain.NodeSchema{
		Kind:   "k",
		Fields: []domain.FieldSpec{{Name: "v", Type: domain.FieldNumber, Effect: "check"}},
	})
	reg := effects.NewRegistry()
	var inFlight, maxInFlight int
	var mu sync.Mutex
	reg.Register("check", func(context.Context, effects.Call) error {
		mu.Lock()
		inFlight++
		maxInFlight = max(maxInFlight, inFlight)
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	})
	eng, _ := newEngine(t, WithCatalog(c), WithEffects(reg))
	id, _ := eng.AddNode(ctx, "k")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, eng.OnEdit(ctx, id, "v", i))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, maxInFlight)
}

func TestEngine_RemoveNode(t *testing.T) {
	ctx := context.Background()
	eng, _ := newEngine(t)
	id, _ := eng.AddNode(ctx, domain.KindLLM)
	require.NoError(t, eng.OnEdit(ctx, id, "modelName", "GPT-4"))

	require.NoError(t, eng.RemoveNode(ctx, id))
	_, err := eng.RenderNode(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.ErrorIs(t, eng.RemoveNode(ctx, id), domain.ErrNodeNotFound)
}

func TestEngine_OnEdit_DistributedLock(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := redis.NewLocker(client, "test:")
	eng, store := newEngine(t, WithLocker(locker, time.Second))
	id, err := eng.AddNode(ctx, domain.KindLLM)
	require.NoError(t, err)

	require.NoError(t, eng.OnEdit(ctx, id, "modelName", "GPT-4"))
	assert.Equal(t, []string{"set:modelName"}, store.events)
	assert.False(t, mr.Exists("test:lock:"+id), "lock released after the edit")

	// Another replica holds the node: the edit gives up with the context.
	unlock, err := locker.Lock(ctx, id, time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	short, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	err = eng.OnEdit(short, id, "modelName", "Claude")
	require.Error(t, err)
	v, _, _ := store.GetFieldValue(ctx, id, "modelName")
	assert.Equal(t, "GPT-4", v)
}

func TestEngine_LocalState_UnknownIDLeavesNoEntry(t *testing.T) {
	eng, _ := newEngine(t)

	assert.Empty(t, eng.LocalState("ghost-1"))

	eng.mu.Lock()
	defer eng.mu.Unlock()
	assert.NotContains(t, eng.instances, "ghost-1")
}
