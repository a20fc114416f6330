package domain

import "errors"

// ErrNodeNotFound is returned when a node instance cannot be found in the graph state.
var ErrNodeNotFound = errors.New("node not found")

// ErrUnknownKind is returned when no schema is registered for a node kind.
var ErrUnknownKind = errors.New("unknown node kind")

// ErrEdgeNotFound is returned when an edge id does not exist.
var ErrEdgeNotFound = errors.New("edge not found")

// ErrBackendUnavailable is returned when the validation backend cannot be reached
// or answers with a non-success status.
var ErrBackendUnavailable = errors.New("validation backend unavailable")
