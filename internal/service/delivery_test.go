package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/realtime-session-service/internal/domain/model"
	"github.com/webitel/realtime-session-service/internal/domain/registry"
)

func testIdentity() model.Identity {
	return model.Identity{Sub: uuid.New(), Name: "Alice", Email: "alice@example.com"}
}

func TestSubscribeRegistersConnection(t *testing.T) {
	hub := registry.NewHub(registry.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	svc := NewDeliveryService(hub, 16)
	sessionID := uuid.New()

	conn, err := svc.Subscribe(context.Background(), sessionID, testIdentity())
	require.NoError(t, err)
	require.NotNil(t, conn)

	identity, ok := hub.LookupIdentity(sessionID, conn.GetID())
	require.True(t, ok)
	assert.Equal(t, "Alice", identity.Name)

	svc.Unsubscribe(sessionID, conn.GetID())
	assert.Equal(t, 0, hub.Stats().TotalSessions)
}

func TestSubscribeMailboxCapacity(t *testing.T) {
	hub := registry.NewHub(registry.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	svc := NewDeliveryService(hub, 2)

	conn, err := svc.Subscribe(context.Background(), uuid.New(), testIdentity())
	require.NoError(t, err)

	assert.True(t, conn.Push("a"))
	assert.True(t, conn.Push("b"))
	assert.False(t, conn.Push("c"))
}

// collidingHub forces Insert collisions to exercise the redraw loop.
type collidingHub struct {
	registry.Hubber
	rejections int
	inserts    int
}

func (h *collidingHub) Insert(sessionID uuid.UUID, conn registry.Connector) error {
	h.inserts++
	if h.rejections > 0 {
		h.rejections--
		return registry.ErrConnIDTaken
	}
	return h.Hubber.Insert(sessionID, conn)
}

func TestSubscribeRedrawsOnCollision(t *testing.T) {
	hub := registry.NewHub(registry.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	colliding := &collidingHub{Hubber: hub, rejections: 2}
	svc := NewDeliveryService(colliding, 16)

	conn, err := svc.Subscribe(context.Background(), uuid.New(), testIdentity())
	require.NoError(t, err)
	require.NotNil(t, conn)
	assert.Equal(t, 3, colliding.inserts)
}

func TestSubscribeGivesUpAfterRetries(t *testing.T) {
	hub := registry.NewHub(registry.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	colliding := &collidingHub{Hubber: hub, rejections: 100}
	svc := NewDeliveryService(colliding, 16)

	_, err := svc.Subscribe(context.Background(), uuid.New(), testIdentity())
	require.ErrorIs(t, err, registry.ErrConnIDTaken)
	assert.Equal(t, insertRetries, colliding.inserts)
}
