package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/webitel/realtime-session-service/internal/auth"
	"github.com/webitel/realtime-session-service/internal/domain/model"
	"github.com/webitel/realtime-session-service/internal/domain/registry"
	wsmarshaller "github.com/webitel/realtime-session-service/internal/handler/marshaller/ws"
	"github.com/webitel/realtime-session-service/internal/metrics"
	"github.com/webitel/realtime-session-service/internal/service"
)

// writeWait bounds every write on the socket, control frames included.
const writeWait = 10 * time.Second

// EgressPublisher forwards accepted chat messages to the external bus.
// Publish outcomes never influence the dispatcher.
type EgressPublisher interface {
	PublishChatMessage(ctx context.Context, sessionID uuid.UUID, sender model.Identity, content string)
}

type WSHandler struct {
	logger    *slog.Logger
	deliverer service.Deliverer
	verifier  auth.Verifier
	hub       registry.Hubber
	publisher EgressPublisher
	collector *metrics.Collector
	heartbeat time.Duration
	upgrader  websocket.Upgrader
}

func NewWSHandler(
	logger *slog.Logger,
	deliverer service.Deliverer,
	verifier auth.Verifier,
	hub registry.Hubber,
	publisher EgressPublisher,
	collector *metrics.Collector,
	heartbeat time.Duration,
) *WSHandler {
	return &WSHandler{
		logger:    logger,
		deliverer: deliverer,
		verifier:  verifier,
		hub:       hub,
		publisher: publisher,
		collector: collector,
		heartbeat: heartbeat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Security: adjust for production
		},
	}
}

// ServeHTTP runs the full connection lifecycle: parse, authenticate,
// upgrade, register, pump, deregister. Each step must succeed before the
// next; nothing reaches the registry before authentication.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "session_id"))
	if err != nil {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return
	}

	identity, err := h.verifier.Verify(r.URL.Query().Get("token"))
	if err != nil {
		h.logger.Warn("token validation failed", "error", err, "session_id", sessionID)
		http.Error(w, "Token invalid or expired", http.StatusUnauthorized)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	conn, err := h.deliverer.Subscribe(r.Context(), sessionID, identity)
	if err != nil {
		h.logger.Error("subscribe failed", "error", err, "session_id", sessionID)
		return
	}
	defer h.deliverer.Unsubscribe(sessionID, conn.GetID())

	h.collector.ActiveConnections.Inc()
	defer h.collector.ActiveConnections.Dec()

	h.logger.Info("ws opened",
		"user_id", identity.Sub,
		"session_id", sessionID,
		"conn_id", conn.GetID())

	// One goroutine reads, this goroutine writes. The reader owns inbound
	// demux; the writer owns the mailbox and the heartbeat.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		h.readPump(ws, sessionID, conn)
	}()

	h.writePump(ws, conn, readDone)

	// Closing the socket unblocks a reader still parked in ReadMessage.
	ws.Close()
	<-readDone

	h.logger.Info("ws closed", "conn_id", conn.GetID(), "session_id", sessionID)
}

// readPump demultiplexes inbound frames until the stream errors or closes.
// Ping frames are answered with a matching pong by the default ping handler;
// pong, binary and other frames are ignored.
func (h *WSHandler) readPump(ws *websocket.Conn, sessionID uuid.UUID, conn registry.Connector) {
	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			// Close frames and stream failures both land here.
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		msg, err := wsmarshaller.UnmarshalChatMessage(data)
		if err != nil {
			// A malformed frame never kills the connection.
			h.logger.Warn("malformed chat frame",
				"error", err,
				"conn_id", conn.GetID(),
				"raw", string(data))
			continue
		}
		h.collector.MessagesReceived.Inc()

		sender, ok := h.hub.LookupIdentity(sessionID, conn.GetID())
		if !ok {
			sender = conn.GetIdentity()
		}

		payload, err := wsmarshaller.MarshalChatEnvelope(sender, msg.Content)
		if err != nil {
			h.logger.Error("marshal chat envelope failed", "error", err)
			continue
		}

		h.hub.Broadcast(sessionID, string(payload), conn.GetID())

		// Egress runs concurrently with fan-out; neither waits on the other.
		go h.publisher.PublishChatMessage(context.Background(), sessionID, sender, msg.Content)
	}
}

// writePump drains the mailbox onto the stream and emits the liveness ping.
// Any write failure terminates the connection.
func (h *WSHandler) writePump(ws *websocket.Conn, conn registry.Connector, readDone <-chan struct{}) {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case payload := <-conn.Recv():
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				h.logger.Warn("ws send failed", "error", err, "conn_id", conn.GetID())
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.logger.Warn("heartbeat failed", "error", err, "conn_id", conn.GetID())
				return
			}
		case <-conn.Done():
			return
		case <-readDone:
			return
		}
	}
}
