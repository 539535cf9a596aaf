package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.ObserveSolve("knapsack", "optimal", 2*time.Millisecond, 1.0)
	c.ObserveSolve("knapsack", "optimal", time.Millisecond, 0.986)
	c.ObserveFailure("knapsack", "capacity_exceeded")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.solves.WithLabelValues("knapsack", "optimal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues("knapsack", "capacity_exceeded")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestCollector_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestCollector_Nil(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveSolve("rr", "baseline", time.Second, 0.5)
		c.ObserveFailure("rr", "invalid_item")
	})
}
