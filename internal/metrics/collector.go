package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "realtime_session"

// Label names shared across metrics.
const (
	labelSubject    = "subject"
	labelMethod     = "method"
	labelPath       = "path"
	labelStatusCode = "status_code"
)

// Collector holds every Prometheus metric the service emits.
//
// The drop and restart counters exist because the failure modes they track
// are otherwise invisible: a mailbox overflow is never reported to the slow
// consumer, and a bus consumer restart happens in a background supervisor.
type Collector struct {
	// ActiveConnections tracks currently registered client streams.
	ActiveConnections prometheus.Gauge

	// MessagesReceived counts inbound chat frames accepted by dispatchers.
	MessagesReceived prometheus.Counter

	// BroadcastDelivered counts payloads enqueued onto peer mailboxes.
	BroadcastDelivered prometheus.Counter

	// MailboxDropped counts payloads dropped on full mailboxes.
	MailboxDropped prometheus.Counter

	// BroadcastMisses counts broadcasts aimed at absent sessions.
	BroadcastMisses prometheus.Counter

	// BusEventsConsumed counts bus messages handled per subject.
	BusEventsConsumed *prometheus.CounterVec

	// BusPublishFailures counts failed egress publishes.
	BusPublishFailures prometheus.Counter

	// BusConsumerRestarts counts supervisor restarts per subject.
	BusConsumerRestarts *prometheus.CounterVec

	// HTTPRequestsTotal counts HTTP requests by method, path and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request latency by method, path and status.
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers all metrics against reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_active_connections",
			Help:      "Number of currently registered client connections.",
		}),
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_received_total",
			Help:      "Total inbound chat frames accepted.",
		}),
		BroadcastDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_broadcast_delivered_total",
			Help:      "Total payloads enqueued onto recipient mailboxes.",
		}),
		MailboxDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_mailbox_dropped_total",
			Help:      "Total payloads dropped because a mailbox was full.",
		}),
		BroadcastMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_broadcast_misses_total",
			Help:      "Total broadcasts targeting a session with no connections.",
		}),
		BusEventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_events_consumed_total",
			Help:      "Total bus events handled, per subject.",
		}, []string{labelSubject}),
		BusPublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_publish_failures_total",
			Help:      "Total failed egress publishes.",
		}),
		BusConsumerRestarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_consumer_restarts_total",
			Help:      "Total bus consumer supervisor restarts, per subject.",
		}, []string{labelSubject}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{labelMethod, labelPath, labelStatusCode}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{labelMethod, labelPath, labelStatusCode}),
	}

	reg.MustRegister(
		c.ActiveConnections,
		c.MessagesReceived,
		c.BroadcastDelivered,
		c.MailboxDropped,
		c.BroadcastMisses,
		c.BusEventsConsumed,
		c.BusPublishFailures,
		c.BusConsumerRestarts,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
	)

	return c
}
