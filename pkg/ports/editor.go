package ports

import (
	"context"

	"github.com/aretw0/pipecanvas/pkg/domain"
)

// Editor is the node schema engine as seen by the outer surfaces (HTTP, MCP).
type Editor interface {
	// AddNode places a new instance of a registered kind.
	AddNode(ctx context.Context, kind string) (string, error)

	// RenderNode returns the drawable form of an instance.
	RenderNode(ctx context.Context, instanceID string) (domain.RenderedNode, error)

	// OnEdit commits a field value and runs the field's declared effect.
	OnEdit(ctx context.Context, instanceID, field string, value any) error

	// RemoveNode deletes an instance and its edges.
	RemoveNode(ctx context.Context, instanceID string) error
}
