package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)

	m.ObserveInbound("processed")
	m.ObserveInbound("processed")
	m.ObserveInbound("duplicate")
	m.ObserveOutbound("sent")
	m.ObserveBooking()
	m.ObserveWebhookLatency(0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.inboundTotal.WithLabelValues("processed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inboundTotal.WithLabelValues("duplicate")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outboundTotal.WithLabelValues("sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingsTotal))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *BotMetrics

	// Handlers run with metrics disabled in tests; none of these may panic.
	m.ObserveInbound("processed")
	m.ObserveOutbound("sent")
	m.ObserveBooking()
	m.ObserveWebhookLatency(0.1)
}
