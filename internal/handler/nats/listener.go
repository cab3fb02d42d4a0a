package natshandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/webitel/realtime-session-service/internal/domain/model"
	"github.com/webitel/realtime-session-service/internal/domain/registry"
	wsmarshaller "github.com/webitel/realtime-session-service/internal/handler/marshaller/ws"
	"github.com/webitel/realtime-session-service/internal/metrics"
)

// Subjects carrying session lifecycle events. Adding a subject here is the
// whole extension surface.
var subjects = []string{
	"session.created",
	"session.joined",
}

const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second

	// pendingBuffer decouples the NATS dispatcher from broadcast latency
	// while keeping per-subject arrival order.
	pendingBuffer = 64
)

// BusSubscriber is the minimal subscription surface of the NATS connection.
type BusSubscriber interface {
	ChanSubscribe(subject string, ch chan *nats.Msg) (*nats.Subscription, error)
}

// Listener bridges external session lifecycle events into session-scoped
// broadcasts. One supervised consumer goroutine per subject.
type Listener struct {
	conn      BusSubscriber
	hub       registry.Hubber
	logger    *slog.Logger
	collector *metrics.Collector
}

func NewListener(conn BusSubscriber, hub registry.Hubber, logger *slog.Logger, collector *metrics.Collector) *Listener {
	return &Listener{
		conn:      conn,
		hub:       hub,
		logger:    logger,
		collector: collector,
	}
}

// Run starts one consumer per subject and returns immediately. Consumers
// stop when ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	for _, subject := range subjects {
		go l.consume(ctx, subject)
	}
}

// consume supervises a single subject. A failed subscribe or a broken
// subscription is retried with exponential backoff, 1s doubling up to the
// 30s ceiling, indefinitely. A halted consumer would silently cut every
// client off from lifecycle events, so giving up is not an option.
func (l *Listener) consume(ctx context.Context, subject string) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialBackoff
	bo.MaxInterval = maxBackoff
	bo.MaxElapsedTime = 0
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.Reset()

	for {
		err := l.consumeOnce(ctx, subject, bo)
		if ctx.Err() != nil {
			return
		}

		l.collector.BusConsumerRestarts.WithLabelValues(subject).Inc()
		wait := bo.NextBackOff()
		l.logger.Warn("bus consumer restarting",
			"subject", subject,
			"error", err,
			"backoff", wait)

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (l *Listener) consumeOnce(ctx context.Context, subject string, bo *backoff.ExponentialBackOff) error {
	pending := make(chan *nats.Msg, pendingBuffer)
	sub, err := l.conn.ChanSubscribe(subject, pending)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	defer sub.Unsubscribe()

	l.logger.Info("subscribed to subject", "subject", subject)
	bo.Reset()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-pending:
			if !ok {
				return errors.New("subscription channel closed")
			}
			l.handle(subject, msg.Data)
		}
	}
}

// handle translates one bus payload into a session broadcast. Malformed
// payloads are logged and discarded; the consumer keeps running.
func (l *Listener) handle(subject string, data []byte) {
	var ev model.SessionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		l.logger.Warn("failed to parse event payload",
			"error", err,
			"subject", subject)
		return
	}
	l.collector.BusEventsConsumed.WithLabelValues(subject).Inc()

	payload, err := wsmarshaller.MarshalSystemBroadcast(ev.EventType, ev.SessionID)
	if err != nil {
		l.logger.Error("marshal system broadcast failed", "error", err)
		return
	}

	l.logger.Debug("received bus event",
		"event_type", ev.EventType,
		"session_id", ev.SessionID)

	l.hub.Broadcast(ev.SessionID, string(payload), registry.NoSkip)
}
