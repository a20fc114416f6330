package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/effects"
	"github.com/aretw0/pipecanvas/pkg/template"
)

// OnEdit is the single mutation entry point of a node instance.
//
// The edit is applied in a fixed order, under the instance's session lock:
//  1. the local editable state takes the value;
//  2. the value is written through to the store;
//  3. the field's declared effect, if any, runs and sees the committed value.
//
// Fields the schema does not declare are ignored and never written.
func (e *Engine) OnEdit(ctx context.Context, instanceID, field string, value any) error {
	schema, err := e.schemaOf(ctx, instanceID)
	if err != nil {
		return err
	}

	spec, ok := schema.Field(field)
	if !ok {
		e.logger.Warn("Ignoring edit of undeclared field", "node_id", instanceID, "kind", schema.Kind, "field", field)
		return nil
	}

	return e.sessions.WithLock(ctx, instanceID, func(ctx context.Context) error {
		return e.apply(ctx, schema, spec, instanceID, value)
	})
}

// apply runs the three steps of an edit. The caller holds the instance's
// session lock.
func (e *Engine) apply(ctx context.Context, schema domain.NodeSchema, spec domain.FieldSpec, instanceID string, value any) error {
	inst := e.instance(instanceID)
	field := spec.Name

	if tf, ok := templateField(schema); ok && tf.Name == field {
		// Ports are diffed against the committed text, which another replica
		// may have changed since this one last saw it.
		prev, _, err := e.store.GetFieldValue(ctx, instanceID, field)
		if err != nil {
			return err
		}
		inst.syncTracker(textValue(FieldValue(spec, map[string]any{field: prev})))
	}

	prev, had := inst.local[field]
	inst.local[field] = value

	if err := e.store.SetFieldValue(ctx, instanceID, field, value); err != nil {
		if had {
			inst.local[field] = prev
		} else {
			delete(inst.local, field)
		}
		return fmt.Errorf("failed to write %s.%s: %w", instanceID, field, err)
	}

	e.logger.Debug("Field committed", "node_id", instanceID, "field", field)
	if e.hooks.OnFieldChange != nil {
		e.hooks.OnFieldChange(ctx, &domain.FieldEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFieldChange},
			NodeID:    instanceID,
			Kind:      schema.Kind,
			Field:     field,
			Value:     value,
		})
	}

	if spec.Effect == "" {
		return nil
	}

	err := e.effects.Dispatch(ctx, spec.Effect, effects.Call{
		InstanceID: instanceID,
		Kind:       schema.Kind,
		Field:      field,
		Value:      value,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, effects.ErrUnknownEffect):
		e.logger.Warn("Skipping unknown effect", "node_id", instanceID, "effect", spec.Effect)
		return nil
	default:
		e.logger.Error("Effect failed", "node_id", instanceID, "effect", spec.Effect, "error", err)
		return fmt.Errorf("effect %s on %s.%s: %w", spec.Effect, instanceID, field, err)
	}
}

// reconcilePorts re-derives the ports of a template node from its committed
// text and drops the edges of ports that disappeared. Runs with the
// instance's session lock held by OnEdit.
func (e *Engine) reconcilePorts(ctx context.Context, call effects.Call) error {
	schema, err := e.catalog.Get(call.Kind)
	if err != nil {
		return err
	}
	spec, ok := schema.Field(call.Field)
	if !ok {
		return nil
	}

	stored, _, err := e.store.GetFieldValue(ctx, call.InstanceID, call.Field)
	if err != nil {
		return err
	}
	text := textValue(FieldValue(spec, map[string]any{call.Field: stored}))

	inst := e.instance(call.InstanceID)
	if inst.tracker == nil {
		inst.tracker = template.NewNode(text)
	}
	d := inst.tracker.Update(text)
	if !d.Changed() {
		return nil
	}

	var pruned []string
	if len(d.Removed) > 0 {
		handles := make([]string, len(d.Removed))
		for i, name := range d.Removed {
			handles[i] = domain.InputHandleID(call.InstanceID, name, schema.Outputs)
		}
		removed, err := e.store.PruneInputs(ctx, call.InstanceID, handles)
		if err != nil {
			return fmt.Errorf("failed to prune edges: %w", err)
		}
		for _, edge := range removed {
			pruned = append(pruned, edge.ID)
		}
		if len(pruned) > 0 {
			e.logger.Info("Dropped edges of removed ports", "node_id", call.InstanceID, "ports", d.Removed, "edges", len(pruned))
		}
	}

	if e.hooks.OnPortsChange != nil {
		e.hooks.OnPortsChange(ctx, &domain.PortsEvent{
			EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventPortsChange},
			NodeID:      call.InstanceID,
			Ports:       d.Variables,
			Added:       d.Added,
			Removed:     d.Removed,
			PrunedEdges: pruned,
		})
	}
	return nil
}
