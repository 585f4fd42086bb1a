package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec

	// Engine Metrics
	ExecutionsTotal   *prometheus.CounterVec
	ExecutionDuration *prometheus.HistogramVec
	ActionErrors      *prometheus.CounterVec
	ActionRetries     *prometheus.CounterVec
	DispatchOverflows prometheus.Counter
	QueueDepth        prometheus.Gauge

	// Sweep worker metrics
	SweepRuns   prometheus.Counter
	SweepErrors prometheus.Counter
}

// New creates and registers all metrics with the default registerer.
func New() *Metrics {
	return newWith(prometheus.DefaultRegisterer)
}

// NewForTesting creates metrics backed by a throwaway registry so parallel
// tests do not collide on duplicate registration.
func NewForTesting() *Metrics {
	return newWith(prometheus.NewRegistry())
}

func newWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ExecutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automation_executions_total",
				Help: "Total number of rule executions by outcome",
			},
			[]string{"rule_id", "status"},
		),
		ExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "automation_execution_duration_seconds",
				Help:    "Rule execution duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"rule_id"},
		),
		ActionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automation_action_errors_total",
				Help: "Total number of failed action attempts",
			},
			[]string{"action_type"},
		),
		ActionRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automation_action_retries_total",
				Help: "Total number of action retry attempts",
			},
			[]string{"action_type"},
		),
		DispatchOverflows: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "automation_dispatch_overflows_total",
				Help: "Executions rejected because the queue was full",
			},
		),
		QueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "automation_queue_depth",
				Help: "Current number of pending executions",
			},
		),
		SweepRuns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "automation_sweep_runs_total",
				Help: "Total number of time-based trigger sweeps",
			},
		),
		SweepErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "automation_sweep_errors_total",
				Help: "Total number of failed trigger sweeps",
			},
		),
	}
}
