package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pipecanvas"

// Metrics holds the editor and validation collectors.
type Metrics struct {
	FieldEdits   *prometheus.CounterVec
	PortChanges  *prometheus.CounterVec
	PrunedEdges  prometheus.Counter
	Validations  *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FieldEdits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_edits_total",
				Help:      "Committed field edits by node kind.",
			},
			[]string{"kind"},
		),
		PortChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "template_port_changes_total",
				Help:      "Inferred template ports added or removed.",
			},
			[]string{"change"},
		),
		PrunedEdges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pruned_edges_total",
				Help:      "Edges dropped because their port disappeared.",
			},
		),
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_validations_total",
				Help:      "Pipelines checked by the validation backend.",
			},
			[]string{"is_dag"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests by route pattern.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.FieldEdits, m.PortChanges, m.PrunedEdges, m.Validations, m.HTTPDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that update the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFieldChange: func(_ context.Context, ev *domain.FieldEvent) {
			m.FieldEdits.WithLabelValues(ev.Kind).Inc()
		},
		OnPortsChange: func(_ context.Context, ev *domain.PortsEvent) {
			m.PortChanges.WithLabelValues("added").Add(float64(len(ev.Added)))
			m.PortChanges.WithLabelValues("removed").Add(float64(len(ev.Removed)))
			m.PrunedEdges.Add(float64(len(ev.PrunedEdges)))
		},
	}
}

// ObserveValidation records the outcome of a DAG check.
func (m *Metrics) ObserveValidation(r domain.ParseResult) {
	m.Validations.WithLabelValues(strconv.FormatBool(r.IsDAG)).Inc()
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// MergeHooks chains several hook sets; every non-nil callback runs in order.
func MergeHooks(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFieldChange: func(ctx context.Context, ev *domain.FieldEvent) {
			for _, h := range all {
				if h.OnFieldChange != nil {
					h.OnFieldChange(ctx, ev)
				}
			}
		},
		OnPortsChange: func(ctx context.Context, ev *domain.PortsEvent) {
			for _, h := range all {
				if h.OnPortsChange != nil {
					h.OnPortsChange(ctx, ev)
				}
			}
		},
	}
}
