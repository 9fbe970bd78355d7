package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.Observe("marshal", "extended", "xml", time.Millisecond, nil)
	c.Observe("marshal", "extended", "xml", time.Millisecond, nil)
	c.Observe("unmarshal", "reference", "json", time.Millisecond, errors.New("boom"))

	assert.InDelta(t, 2, testutil.ToFloat64(c.Operations().WithLabelValues("marshal", "extended", "xml", OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.Operations().WithLabelValues("unmarshal", "reference", "json", OutcomeError)), 0)
}

func TestCollector_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Observe("marshal", "extended", "xml", time.Second, nil)
	})
}
