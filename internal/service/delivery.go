package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/webitel/realtime-session-service/internal/domain/model"
	"github.com/webitel/realtime-session-service/internal/domain/registry"
)

// insertRetries bounds the redraw loop on connection id collision. With a
// monotonic counter a collision never happens; the loop exists so a future
// id scheme cannot silently overwrite a live connection.
const insertRetries = 3

// Deliverer is the primary interface for transport handlers.
type Deliverer interface {
	Subscribe(ctx context.Context, sessionID uuid.UUID, identity model.Identity) (registry.Connector, error)
	Unsubscribe(sessionID uuid.UUID, connID uint64)
}

type DeliveryService struct {
	hub         registry.Hubber
	mailboxSize int
}

// NewDeliveryService returns a production-ready instance of the service.
func NewDeliveryService(hub registry.Hubber, mailboxSize int) *DeliveryService {
	return &DeliveryService{
		hub:         hub,
		mailboxSize: mailboxSize,
	}
}

// Subscribe draws a connection id, builds the connection record around a
// bounded mailbox, and registers it with the hub. On id collision the id is
// redrawn and registration retried.
func (s *DeliveryService) Subscribe(ctx context.Context, sessionID uuid.UUID, identity model.Identity) (registry.Connector, error) {
	var conn registry.Connector
	for range insertRetries {
		conn = registry.NewConnector(s.hub.NextConnID(), identity, s.mailboxSize)
		if err := s.hub.Insert(sessionID, conn); err == nil {
			return conn, nil
		}
	}
	return nil, fmt.Errorf("service: subscribe session %s: %w", sessionID, registry.ErrConnIDTaken)
}

// Unsubscribe removes the connection from the hub. The hub erases the
// session entry together with its last connection.
func (s *DeliveryService) Unsubscribe(sessionID uuid.UUID, connID uint64) {
	s.hub.Remove(sessionID, connID)
}
