package ports

import (
	"context"

	"github.com/aretw0/pipecanvas/pkg/domain"
)

// FieldStore holds the field values of node instances.
// A value written by SetFieldValue must be returned by the next GetFieldValue
// for the same instance and field.
type FieldStore interface {
	// GetFieldValue returns the stored value and whether one is present.
	// Returns domain.ErrNodeNotFound if the instance does not exist.
	GetFieldValue(ctx context.Context, instanceID, field string) (any, bool, error)

	// SetFieldValue stores value under field for the instance.
	SetFieldValue(ctx context.Context, instanceID, field string, value any) error
}

// EdgePruner removes edges that reference ports which no longer exist.
type EdgePruner interface {
	// PruneInputs deletes every edge that ends at instanceID through one of
	// the input handles and returns the deleted edges. Edges leaving the
	// instance are kept even when a source handle has the same string.
	PruneInputs(ctx context.Context, instanceID string, handles []string) ([]domain.Edge, error)
}

// GraphStore is the graph-state container shared by the editor surfaces.
type GraphStore interface {
	FieldStore
	EdgePruner

	// AddNode creates an instance of kind and returns its id, "<kind>-<n>".
	AddNode(ctx context.Context, kind string, values map[string]any) (string, error)

	// Kind returns the node kind of an instance.
	Kind(ctx context.Context, instanceID string) (string, error)

	// FieldValues returns a copy of every stored value of an instance.
	FieldValues(ctx context.Context, instanceID string) (map[string]any, error)

	// RemoveNode deletes an instance and every edge touching it.
	RemoveNode(ctx context.Context, instanceID string) error

	// Connect stores an edge, assigning an id when it has none.
	// Both endpoints must exist.
	Connect(ctx context.Context, edge domain.Edge) (domain.Edge, error)

	// Disconnect deletes an edge. Returns domain.ErrEdgeNotFound if absent.
	Disconnect(ctx context.Context, edgeID string) error

	// Edges returns every edge in insertion order.
	Edges(ctx context.Context) ([]domain.Edge, error)

	// Snapshot returns the whole graph as a wire payload, nodes in insertion order.
	Snapshot(ctx context.Context) (domain.Pipeline, error)
}
