package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"github.com/webitel/realtime-session-service/internal/domain/model"
	"github.com/webitel/realtime-session-service/internal/metrics"
)

const chatMessageReceived = "chat.message.received"

// BusPublisher is the minimal publishing surface of the NATS connection.
type BusPublisher interface {
	Publish(subject string, data []byte) error
}

// Publisher emits per-message fan-out events to the external bus.
//
// Publishing is strictly best-effort: every failure is logged and counted,
// none is propagated. The circuit breaker keeps a dead bus from adding a
// publish attempt to every inbound frame.
type Publisher struct {
	conn      BusPublisher
	logger    *slog.Logger
	collector *metrics.Collector
	breaker   *gobreaker.CircuitBreaker
}

func NewPublisher(conn BusPublisher, logger *slog.Logger, collector *metrics.Collector) *Publisher {
	return &Publisher{
		conn:      conn,
		logger:    logger,
		collector: collector,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "nats-egress",
		}),
	}
}

// PublishChatMessage publishes the egress event for one accepted chat
// message under chat.message.received.<session_id>.
func (p *Publisher) PublishChatMessage(ctx context.Context, sessionID uuid.UUID, sender model.Identity, content string) {
	payload, err := json.Marshal(&model.EgressEvent{
		EventType: chatMessageReceived,
		SessionID: sessionID,
		UserID:    sender.Sub,
		UserName:  sender.Name,
		Content:   content,
	})
	if err != nil {
		p.collector.BusPublishFailures.Inc()
		p.logger.Error("serialize chat message event failed", "error", err)
		return
	}

	subject := fmt.Sprintf("%s.%s", chatMessageReceived, sessionID)
	if _, err := p.breaker.Execute(func() (any, error) {
		return nil, p.conn.Publish(subject, payload)
	}); err != nil {
		p.collector.BusPublishFailures.Inc()
		p.logger.Error("publish chat message event failed",
			"error", err,
			"subject", subject,
			"session_id", sessionID)
		return
	}

	p.logger.Debug("published chat message event", "session_id", sessionID)
}
