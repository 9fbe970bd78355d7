// Package metrics exposes Prometheus instrumentation for binding operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bindkit"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector records binding operations.
type Collector struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it with reg.
// A nil reg leaves the collector unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Marshal and unmarshal operations by provider, format and outcome.",
		}, []string{"op", "provider", "format", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of marshal and unmarshal operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op", "provider", "format"}),
	}

	if reg == nil {
		return c, nil
	}

	for _, col := range []prometheus.Collector{c.operations, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Observe records one operation.
func (c *Collector) Observe(op, provider, format string, took time.Duration, err error) {
	if c == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}

	c.operations.WithLabelValues(op, provider, format, outcome).Inc()
	c.duration.WithLabelValues(op, provider, format).Observe(took.Seconds())
}

// Operations returns the counter vector, for tests and custom exporters.
func (c *Collector) Operations() *prometheus.CounterVec {
	return c.operations
}
