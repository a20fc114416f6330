package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/google/uuid"
)

type node struct {
	kind   string
	values map[string]any
}

// Store implements ports.GraphStore in memory.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	nodes    map[string]*node
	order    []string
	edges    []domain.Edge
	counters map[string]int
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		nodes:    make(map[string]*node),
		counters: make(map[string]int),
	}
}

// AddNode creates an instance of kind with a copy of values.
func (s *Store) AddNode(ctx context.Context, kind string, values map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[kind]++
	id := fmt.Sprintf("%s-%d", kind, s.counters[kind])
	s.insert(id, kind, values)
	return id, nil
}

func (s *Store) insert(id, kind string, values map[string]any) {
	copied := make(map[string]any, len(values))
	maps.Copy(copied, values)
	if _, exists := s.nodes[id]; !exists {
		s.order = append(s.order, id)
	}
	s.nodes[id] = &node{kind: kind, values: copied}
}

// Kind returns the node kind of an instance.
func (s *Store) Kind(ctx context.Context, instanceID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[instanceID]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrNodeNotFound, instanceID)
	}
	return n.kind, nil
}

// GetFieldValue returns the stored value of field.
func (s *Store) GetFieldValue(ctx context.Context, instanceID, field string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[instanceID]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, instanceID)
	}
	v, ok := n.values[field]
	return v, ok, nil
}

// SetFieldValue stores value under field.
func (s *Store) SetFieldValue(ctx context.Context, instanceID, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[instanceID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, instanceID)
	}
	n.values[field] = value
	return nil
}

// FieldValues returns a copy of the instance's values so callers can't mutate
// store state directly.
func (s *Store) FieldValues(ctx context.Context, instanceID string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[instanceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, instanceID)
	}
	return maps.Clone(n.values), nil
}

// RemoveNode deletes the instance and its incident edges.
func (s *Store) RemoveNode(ctx context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[instanceID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, instanceID)
	}
	delete(s.nodes, instanceID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == instanceID })
	s.edges = slices.DeleteFunc(s.edges, func(e domain.Edge) bool {
		return e.Source == instanceID || e.Target == instanceID
	})
	return nil
}

// Connect stores the edge. A missing id is filled with a UUID.
func (s *Store) Connect(ctx context.Context, edge domain.Edge) (domain.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{edge.Source, edge.Target} {
		if _, ok := s.nodes[id]; !ok {
			return domain.Edge{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
		}
	}
	if edge.ID == "" {
		edge.ID = uuid.NewString()
	}

	if i := slices.IndexFunc(s.edges, func(e domain.Edge) bool { return e.ID == edge.ID }); i >= 0 {
		s.edges[i] = edge
	} else {
		s.edges = append(s.edges, edge)
	}
	return edge, nil
}

// Disconnect deletes an edge by id.
func (s *Store) Disconnect(ctx context.Context, edgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.edges, func(e domain.Edge) bool { return e.ID == edgeID })
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrEdgeNotFound, edgeID)
	}
	s.edges = slices.Delete(s.edges, i, i+1)
	return nil
}

// Edges returns a copy of the edge list.
func (s *Store) Edges(ctx context.Context) ([]domain.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.edges), nil
}

// PruneInputs deletes every edge entering instanceID through one of handles.
func (s *Store) PruneInputs(ctx context.Context, instanceID string, handles []string) ([]domain.Edge, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []domain.Edge
	s.edges = slices.DeleteFunc(s.edges, func(e domain.Edge) bool {
		if e.Target == instanceID && slices.Contains(handles, e.TargetHandle) {
			removed = append(removed, e)
			return true
		}
		return false
	})
	return removed, nil
}

// Snapshot returns the graph as a wire payload.
func (s *Store) Snapshot(ctx context.Context) (domain.Pipeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := domain.Pipeline{
		Nodes: make([]domain.Node, 0, len(s.order)),
		Edges: slices.Clone(s.edges),
	}
	if p.Edges == nil {
		p.Edges = []domain.Edge{}
	}
	for _, id := range s.order {
		n := s.nodes[id]
		p.Nodes = append(p.Nodes, domain.Node{ID: id, Type: n.kind, Data: maps.Clone(n.values)})
	}
	return p, nil
}
