// Package metrics exposes Prometheus collectors for solver activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "beerbudget"

// Collector records solves. A nil *Collector is valid and records nothing.
type Collector struct {
	solves      *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	utilization *prometheus.HistogramVec
}

// New creates collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Completed solves by algorithm and result status.",
		}, []string{"algorithm", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_failures_total",
			Help:      "Rejected solves by algorithm and reason.",
		}, []string{"algorithm", "reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time spent solving.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"algorithm"}),
		utilization: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "budget_utilization_ratio",
			Help:      "Fraction of the budget spent by a solve.",
			Buckets:   []float64{0.5, 0.8, 0.9, 0.95, 0.98, 0.99, 0.999, 1},
		}, []string{"algorithm"}),
	}

	for _, col := range []prometheus.Collector{c.solves, c.failures, c.duration, c.utilization} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveSolve records a successful solve.
func (c *Collector) ObserveSolve(algorithm, status string, elapsed time.Duration, utilization float64) {
	if c == nil {
		return
	}
	c.solves.WithLabelValues(algorithm, status).Inc()
	c.duration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	c.utilization.WithLabelValues(algorithm).Observe(utilization)
}

// ObserveFailure records a rejected solve.
func (c *Collector) ObserveFailure(algorithm, reason string) {
	if c == nil {
		return
	}
	c.failures.WithLabelValues(algorithm, reason).Inc()
}
