package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/webitel/realtime-session-service/internal/metrics"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	if c.ActiveConnections == nil {
		t.Error("ActiveConnections is nil")
	}
	if c.MessagesReceived == nil {
		t.Error("MessagesReceived is nil")
	}
	if c.BroadcastDelivered == nil {
		t.Error("BroadcastDelivered is nil")
	}
	if c.MailboxDropped == nil {
		t.Error("MailboxDropped is nil")
	}
	if c.BroadcastMisses == nil {
		t.Error("BroadcastMisses is nil")
	}
	if c.BusEventsConsumed == nil {
		t.Error("BusEventsConsumed is nil")
	}
	if c.BusPublishFailures == nil {
		t.Error("BusPublishFailures is nil")
	}
	if c.BusConsumerRestarts == nil {
		t.Error("BusConsumerRestarts is nil")
	}
	if c.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal is nil")
	}
	if c.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration is nil")
	}

	// Registration must not panic and the registry must gather cleanly.
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
}

func TestCollectorCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.ActiveConnections.Inc()
	c.ActiveConnections.Inc()
	c.ActiveConnections.Dec()
	if got := testutil.ToFloat64(c.ActiveConnections); got != 1 {
		t.Errorf("ActiveConnections = %v, want 1", got)
	}

	c.MailboxDropped.Add(3)
	if got := testutil.ToFloat64(c.MailboxDropped); got != 3 {
		t.Errorf("MailboxDropped = %v, want 3", got)
	}

	c.BusEventsConsumed.WithLabelValues("session.created").Inc()
	if got := testutil.ToFloat64(c.BusEventsConsumed.WithLabelValues("session.created")); got != 1 {
		t.Errorf("BusEventsConsumed = %v, want 1", got)
	}

	c.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	if got := testutil.ToFloat64(c.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")); got != 1 {
		t.Errorf("HTTPRequestsTotal = %v, want 1", got)
	}
}

func TestCollectorDoubleRegisterPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected second registration on the same registry to panic")
		}
	}()
	metrics.NewCollector(reg)
}
