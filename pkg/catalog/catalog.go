package catalog

import (
	"fmt"
	"sync"

	"github.com/aretw0/pipecanvas/pkg/domain"
)

// Catalog holds the known node kinds. Kinds keep the order they were
// registered in, which is the order of the palette.
type Catalog struct {
	mu      sync.RWMutex
	schemas map[string]domain.NodeSchema
	order   []string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{schemas: make(map[string]domain.NodeSchema)}
}

// Default creates a catalog with the built-in kinds registered.
func Default() *Catalog {
	c := New()
	for _, s := range Builtins() {
		c.Register(s)
	}
	return c
}

// Register adds or replaces a kind. A replaced kind keeps its palette position.
func (c *Catalog) Register(s domain.NodeSchema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.schemas[s.Kind]; !ok {
		c.order = append(c.order, s.Kind)
	}
	c.schemas[s.Kind] = s
}

// Get returns the schema of a kind.
func (c *Catalog) Get(kind string) (domain.NodeSchema, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.schemas[kind]
	if !ok {
		return domain.NodeSchema{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	return s, nil
}

// Kinds returns the registered kind names in palette order.
func (c *Catalog) Kinds() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// All returns the registered schemas in palette order.
func (c *Catalog) All() []domain.NodeSchema {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.NodeSchema, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.schemas[k])
	}
	return out
}
