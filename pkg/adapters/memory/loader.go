package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/pipecanvas/pkg/domain"
)

// NewFromPipeline creates a store pre-filled with a saved pipeline payload.
// Counters continue after the highest "<kind>-<n>" id found, so new nodes never
// collide with loaded ones.
func NewFromPipeline(p domain.Pipeline) (*Store, error) {
	s := NewStore()
	for _, n := range p.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node missing ID")
		}
		if _, dup := s.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node ID %q", n.ID)
		}
		s.insert(n.ID, n.Type, n.Data)
		if seq, ok := sequence(n.Type, n.ID); ok && seq > s.counters[n.Type] {
			s.counters[n.Type] = seq
		}
	}

	for _, e := range p.Edges {
		if _, ok := s.nodes[e.Source]; !ok {
			return nil, fmt.Errorf("edge %q: %w: %s", e.ID, domain.ErrNodeNotFound, e.Source)
		}
		if _, ok := s.nodes[e.Target]; !ok {
			return nil, fmt.Errorf("edge %q: %w: %s", e.ID, domain.ErrNodeNotFound, e.Target)
		}
		s.edges = append(s.edges, e)
	}
	return s, nil
}

func sequence(kind, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, kind+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}
