// Package metrics records engine counters on a private Prometheus registry
// and pushes them to a VictoriaMetrics/Prometheus remote write endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flowd-io/flowd/workflow"
)

// Metrics holds the engine's instruments. All methods are safe for
// concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	executionsStarted  prometheus.Counter
	executionsFinished *prometheus.CounterVec
	activeExecutions   prometheus.Gauge
	executionDuration  prometheus.Histogram
}

// New creates a Metrics with all instruments registered under the given
// name prefix.
func New(prefix string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		executionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_executions_started_total",
			Help: "Total number of workflow executions submitted.",
		}),
		executionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_executions_finished_total",
			Help: "Total number of terminal workflow executions by result.",
		}, []string{"result"}),
		activeExecutions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_active_executions",
			Help: "Number of executions currently pending or running.",
		}),
		executionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    prefix + "_execution_duration_seconds",
			Help:    "Wall-clock duration of finished workflow executions.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}

	registry.MustRegister(
		m.executionsStarted,
		m.executionsFinished,
		m.activeExecutions,
		m.executionDuration,
	)
	return m
}

// ExecutionStarted records a newly submitted execution.
func (m *Metrics) ExecutionStarted() {
	m.executionsStarted.Inc()
	m.activeExecutions.Inc()
}

// ExecutionFinished records a terminal execution. Cancelled executions
// release the active slot but do not contribute a duration sample.
func (m *Metrics) ExecutionFinished(status workflow.Status, duration time.Duration) {
	m.executionsFinished.WithLabelValues(status.String()).Inc()
	m.activeExecutions.Dec()
	if status == workflow.StatusCompleted || status == workflow.StatusFailed {
		m.executionDuration.Observe(duration.Seconds())
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
