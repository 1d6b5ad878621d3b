// Package metrics exposes Prometheus collectors for conversions and
// migration runs.
package metrics

import (
	"context"
	"time"

	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors. Each instance owns its registry so several
// servers (and tests) can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	files       *prometheus.CounterVec
	nodes       *prometheus.CounterVec
}

// New creates and registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewmig_conversions_total",
				Help: "Total number of expression conversions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "viewmig_conversion_duration_seconds",
				Help:    "Duration of expression conversions",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"kind"},
		),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewmig_files_total",
				Help: "Total number of files processed by migration step and outcome",
			},
			[]string{"step", "outcome"},
		),
		nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewmig_view_nodes_converted_total",
				Help: "Total number of view nodes rewritten by kind",
			},
			[]string{"kind"},
		),
	}
	m.Registry.MustRegister(m.conversions, m.duration, m.files, m.nodes)
	return m
}

// ObserveConversion records one conversion. The outcome label is
// domain.ErrorKind(err), "ok" on success.
func (m *Metrics) ObserveConversion(kind string, started time.Time, err error) {
	m.conversions.WithLabelValues(kind, domain.ErrorKind(err)).Inc()
	m.duration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// Hooks returns migration hooks feeding the file and node counters.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnFileDone: func(_ context.Context, e *domain.FileEvent) {
			m.files.WithLabelValues(e.Step, e.Outcome).Inc()
		},
		OnConversion: func(_ context.Context, e *domain.ConversionEvent) {
			m.nodes.WithLabelValues(e.Kind).Inc()
		},
	}
}

// MergeHooks combines hooks so every non-nil callback runs, in order.
func MergeHooks(hooks ...domain.Hooks) domain.Hooks {
	var out domain.Hooks
	for _, h := range hooks {
		h := h
		if h.OnFileStart != nil {
			prev := out.OnFileStart
			out.OnFileStart = func(ctx context.Context, e *domain.FileEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnFileStart(ctx, e)
			}
		}
		if h.OnFileDone != nil {
			prev := out.OnFileDone
			out.OnFileDone = func(ctx context.Context, e *domain.FileEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnFileDone(ctx, e)
			}
		}
		if h.OnConversion != nil {
			prev := out.OnConversion
			out.OnConversion = func(ctx context.Context, e *domain.ConversionEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnConversion(ctx, e)
			}
		}
	}
	return out
}
