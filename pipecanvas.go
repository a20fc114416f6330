package pipecanvas

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/pipecanvas/internal/dag"
	"github.com/aretw0/pipecanvas/internal/engine"
	"github.com/aretw0/pipecanvas/pkg/adapters/memory"
	"github.com/aretw0/pipecanvas/pkg/catalog"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/effects"
	"github.com/aretw0/pipecanvas/pkg/ports"
	"github.com/aretw0/pipecanvas/pkg/template"
)

// Editor is the high-level entry point for the pipecanvas library.
// It wires a catalog, a graph-state store and the schema engine together.
type Editor struct {
	engine    *engine.Engine
	store     ports.GraphStore
	catalog   *catalog.Catalog
	effects   *effects.Registry
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	kindsFile string
	kindsDir  string
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithStore injects the graph-state container. Defaults to an in-memory store.
func WithStore(s ports.GraphStore) Option {
	return func(e *Editor) {
		e.store = s
	}
}

// WithCatalog replaces the built-in node kinds.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Editor) {
		e.catalog = c
	}
}

// WithKindsFile registers the kinds of a YAML file on top of the catalog.
func WithKindsFile(path string) Option {
	return func(e *Editor) {
		e.kindsFile = path
	}
}

// WithKindsDir registers one kind per document of a directory.
func WithKindsDir(dir string) Option {
	return func(e *Editor) {
		e.kindsDir = dir
	}
}

// WithEffects sets the registry that resolves field effect tags.
func WithEffects(r *effects.Registry) Option {
	return func(e *Editor) {
		e.effects = r
	}
}

// WithLocker serializes edits across processes sharing the store.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Editor) {
		e.locker = l
		e.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// New initializes an Editor. Kinds from WithKindsFile and WithKindsDir are
// loaded before the engine starts.
func New(ctx context.Context, opts ...Option) (*Editor, error) {
	ed := &Editor{}
	for _, opt := range opts {
		opt(ed)
	}

	if ed.logger == nil {
		ed.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if ed.store == nil {
		ed.store = memory.NewStore()
	}
	if ed.catalog == nil {
		ed.catalog = catalog.Default()
	}

	if ed.kindsFile != "" {
		n, err := catalog.LoadYAML(ed.catalog, ed.kindsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load kinds: %w", err)
		}
		ed.logger.Debug("Loaded kinds file", "path", ed.kindsFile, "count", n)
	}
	if ed.kindsDir != "" {
		n, err := catalog.LoadDir(ctx, ed.catalog, ed.kindsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load kinds: %w", err)
		}
		ed.logger.Debug("Loaded kinds directory", "dir", ed.kindsDir, "count", n)
	}

	engineOpts := []engine.Option{
		engine.WithCatalog(ed.catalog),
		engine.WithLifecycleHooks(ed.hooks),
		engine.WithLogger(ed.logger),
	}
	if ed.effects != nil {
		engineOpts = append(engineOpts, engine.WithEffects(ed.effects))
	}
	if ed.locker != nil {
		engineOpts = append(engineOpts, engine.WithLocker(ed.locker, ed.lockTTL))
	}
	ed.engine = engine.New(ed.store, engineOpts...)

	return ed, nil
}

// AddNode places a new node of kind and returns its id.
func (e *Editor) AddNode(ctx context.Context, kind string) (string, error) {
	return e.engine.AddNode(ctx, kind)
}

// RenderNode renders an instance from its schema and stored values.
func (e *Editor) RenderNode(ctx context.Context, id string) (domain.RenderedNode, error) {
	return e.engine.RenderNode(ctx, id)
}

// OnEdit is the single mutation entry point for field values.
func (e *Editor) OnEdit(ctx context.Context, id, field string, value any) error {
	return e.engine.OnEdit(ctx, id, field, value)
}

// RemoveNode deletes an instance and the edges touching it.
func (e *Editor) RemoveNode(ctx context.Context, id string) error {
	return e.engine.RemoveNode(ctx, id)
}

// Connect adds an edge between two placed nodes.
func (e *Editor) Connect(ctx context.Context, edge domain.Edge) (domain.Edge, error) {
	return e.store.Connect(ctx, edge)
}

// Disconnect removes an edge.
func (e *Editor) Disconnect(ctx context.Context, edgeID string) error {
	return e.store.Disconnect(ctx, edgeID)
}

// Pipeline returns the wire payload of the current canvas.
func (e *Editor) Pipeline(ctx context.Context) (domain.Pipeline, error) {
	return e.store.Snapshot(ctx)
}

// Validate runs the DAG check on the current canvas.
func (e *Editor) Validate(ctx context.Context) (domain.ParseResult, error) {
	p, err := e.store.Snapshot(ctx)
	if err != nil {
		return domain.ParseResult{}, err
	}
	return Validate(p), nil
}

// Store returns the graph-state container.
func (e *Editor) Store() ports.GraphStore {
	return e.store
}

// Catalog returns the node kinds known to the editor.
func (e *Editor) Catalog() *catalog.Catalog {
	return e.catalog
}

// Validate counts the nodes and edges of p and checks that it is a DAG.
func Validate(p domain.Pipeline) domain.ParseResult {
	return dag.Parse(p)
}

// DerivePorts lists the input ports a template text declares, with the node
// size it needs.
func DerivePorts(text string) template.Inference {
	return template.Infer(text)
}
