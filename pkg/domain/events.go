package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventFieldChange EventType = "field_change"
	EventPortsChange EventType = "ports_change"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// FieldEvent is emitted after a field value has been committed.
type FieldEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Kind   string `json:"kind"`
	Field  string `json:"field"`
	Value  any    `json:"value"`
}

// PortsEvent is emitted when the inferred input ports of a template node change.
type PortsEvent struct {
	EventBase
	NodeID  string   `json:"node_id"`
	Ports   []string `json:"ports"`
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`

	// PrunedEdges lists the ids of edges dropped with the removed ports.
	PrunedEdges []string `json:"pruned_edges,omitempty"`
}

// LifecycleHooks defines callbacks for editor observability.
type LifecycleHooks struct {
	OnFieldChange func(context.Context, *FieldEvent)
	OnPortsChange func(context.Context, *PortsEvent)
}
