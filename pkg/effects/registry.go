// Package effects resolves the side-effect tags declared on schema fields.
//
// A field that needs work done after its value is committed names an effect
// (FieldSpec.Effect). The host registers an implementation for every tag it
// supports; tags nobody registered are reported as ErrUnknownEffect so the
// caller can skip them.
package effects

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownEffect is returned by Dispatch for a tag with no implementation.
var ErrUnknownEffect = errors.New("unknown effect")

// Call describes the committed edit an effect reacts to.
type Call struct {
	InstanceID string
	Kind       string
	Field      string
	Value      any
}

// Func is the implementation of an effect.
type Func func(ctx context.Context, call Call) error

// Registry manages the available effects.
type Registry struct {
	mu      sync.RWMutex
	effects map[string]Func
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		effects: make(map[string]Func),
	}
}

// Register adds an effect to the registry.
// If an effect with the same tag exists, it is overwritten.
func (r *Registry) Register(tag string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects[tag] = fn
}

// Has reports whether tag has an implementation.
func (r *Registry) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.effects[tag]
	return ok
}

// Tags returns the registered tags, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.effects))
	for tag := range r.effects {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Dispatch looks up the effect by tag and runs it.
func (r *Registry) Dispatch(ctx context.Context, tag string, call Call) error {
	r.mu.RLock()
	fn, ok := r.effects[tag]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEffect, tag)
	}

	return fn(ctx, call)
}
