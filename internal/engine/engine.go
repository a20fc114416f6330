// Package engine renders node instances from their schemas and applies field
// edits in the order the editor depends on: local state, write-through,
// declared effect.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/aretw0/pipecanvas/pkg/catalog"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/effects"
	"github.com/aretw0/pipecanvas/pkg/ports"
	"github.com/aretw0/pipecanvas/pkg/session"
	"github.com/aretw0/pipecanvas/pkg/template"
)

// Engine is the node schema engine.
type Engine struct {
	store   ports.GraphStore
	catalog *catalog.Catalog
	effects *effects.Registry
	locker  ports.DistributedLocker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger

	// sessions serializes edits per instance and guards instance state.
	sessions *session.Manager

	mu        sync.Mutex
	instances map[string]*instance
}

// instance is the per-node editing state, guarded by the instance's
// session lock.
type instance struct {
	local map[string]any

	// tracker is set for template nodes only.
	tracker *template.Node
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithEffects replaces the effect registry. The template reconcile effect is
// registered on it unless the registry already has one.
func WithEffects(r *effects.Registry) Option {
	return func(e *Engine) {
		e.effects = r
	}
}

// WithLocker serializes edits to the same instance across processes sharing
// the store. ttl bounds how long a crashed editor can hold a node.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = l
		e.lockTTL = ttl
	}
}

// New creates an engine over store.
func New(store ports.GraphStore, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		lockTTL:   session.DefaultTTL,
		instances: make(map[string]*instance),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	if e.effects == nil {
		e.effects = effects.NewRegistry()
	}
	if !e.effects.Has(catalog.EffectReconcilePorts) {
		e.effects.Register(catalog.EffectReconcilePorts, e.reconcilePorts)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sessionOpts := []session.Option{session.WithLogger(e.logger), session.WithTTL(e.lockTTL)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(sessionOpts...)
	return e
}

// Catalog returns the kinds known to the engine.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Store returns the graph-state container.
func (e *Engine) Store() ports.GraphStore {
	return e.store
}

// AddNode creates an instance of a registered kind, seeding the template
// text of template kinds.
func (e *Engine) AddNode(ctx context.Context, kind string) (string, error) {
	schema, err := e.catalog.Get(kind)
	if err != nil {
		return "", err
	}

	values := map[string]any{}
	if field, ok := templateField(schema); ok {
		values[field.Name] = textValue(FieldValue(field, nil))
	}

	id, err := e.store.AddNode(ctx, kind, values)
	if err != nil {
		return "", fmt.Errorf("failed to add %s node: %w", kind, err)
	}
	e.logger.Debug("Node added", "node_id", id, "kind", kind)
	return id, nil
}

// RemoveNode deletes an instance, its edges and its editing state.
func (e *Engine) RemoveNode(ctx context.Context, instanceID string) error {
	if err := e.store.RemoveNode(ctx, instanceID); err != nil {
		return err
	}
	e.mu.Lock()
	delete(e.instances, instanceID)
	e.mu.Unlock()
	return nil
}

// RenderNode loads an instance from the store and renders it. Template nodes
// get their inputs from the placeholders of their current text.
func (e *Engine) RenderNode(ctx context.Context, instanceID string) (domain.RenderedNode, error) {
	schema, err := e.schemaOf(ctx, instanceID)
	if err != nil {
		return domain.RenderedNode{}, err
	}

	values, err := e.store.FieldValues(ctx, instanceID)
	if err != nil {
		return domain.RenderedNode{}, fmt.Errorf("failed to load values of %s: %w", instanceID, err)
	}

	n := Render(schema, instanceID, values)

	if field, ok := templateField(schema); ok {
		inst := e.instance(instanceID)
		text := textValue(FieldValue(field, values))
		e.sessions.WithLocalLock(instanceID, func() {
			tracker := inst.syncTracker(text)
			applyTemplate(&n, schema.Outputs, field.Name, text, tracker.Variables())
		})
	}

	return n, nil
}

// LocalState returns a copy of the local editable state of an instance.
func (e *Engine) LocalState(instanceID string) map[string]any {
	var out map[string]any
	if inst, ok := e.lookup(instanceID); ok {
		e.sessions.WithLocalLock(instanceID, func() {
			out = maps.Clone(inst.local)
		})
	}
	if out == nil {
		out = map[string]any{}
	}
	return out
}

func (e *Engine) schemaOf(ctx context.Context, instanceID string) (domain.NodeSchema, error) {
	kind, err := e.store.Kind(ctx, instanceID)
	if err != nil {
		return domain.NodeSchema{}, err
	}
	return e.catalog.Get(kind)
}

// lookup returns the editing state of id without creating it.
func (e *Engine) lookup(id string) (*instance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[id]
	return inst, ok
}

// instance returns the editing state of id, creating it. Only call it for
// ids known to the store.
func (e *Engine) instance(id string) *instance {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[id]
	if !ok {
		inst = &instance{local: make(map[string]any)}
		e.instances[id] = inst
	}
	return inst
}

// syncTracker returns the template tracker derived from text. The tracker is
// created on first use and caught up when the stored text moved on without
// it, e.g. after an edit on another replica. Callers hold the instance's
// session lock.
func (inst *instance) syncTracker(text string) *template.Node {
	if inst.tracker == nil {
		inst.tracker = template.NewNode(text)
	} else if inst.tracker.Text() != text {
		inst.tracker.Update(text)
	}
	return inst.tracker
}

// templateField returns the field whose edits re-derive the node's ports.
func templateField(schema domain.NodeSchema) (domain.FieldSpec, bool) {
	for _, f := range schema.Fields {
		if f.Effect == catalog.EffectReconcilePorts {
			return f, true
		}
	}
	return domain.FieldSpec{}, false
}
