package registry

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/webitel/realtime-session-service/internal/domain/model"
)

// ErrConnIDTaken is returned by Insert when the connection id already exists
// in the target session. The caller is expected to redraw and retry; silent
// overwrite would orphan the displaced mailbox and strand its dispatcher.
var ErrConnIDTaken = errors.New("registry: connection id already registered in session")

// NoSkip broadcasts to every connection in the session. Connection ids are
// drawn from a counter starting at 1, so zero never collides with a real id.
const NoSkip uint64 = 0

// Hubber defines the external API of the session registry.
type Hubber interface {
	NextConnID() uint64
	Insert(sessionID uuid.UUID, conn Connector) error
	Remove(sessionID uuid.UUID, connID uint64)
	Broadcast(sessionID uuid.UUID, payload string, skipID uint64) (delivered, dropped int)
	LookupIdentity(sessionID uuid.UUID, connID uint64) (model.Identity, bool)
	Stats() model.HubStats
	Shutdown()
}

// Hub maps session id -> connection id -> connection. A single RWMutex keeps
// every operation linearizable: a broadcast always observes the membership
// set that exists between two insert/remove events, never a torn view.
// Mailbox pushes are non-blocking, so holding the lock across the broadcast
// iteration is safe and bounded by the session size.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[uint64]Connector

	connSeq   atomic.Uint64
	startedAt time.Time

	logger   *slog.Logger
	observer Observer
}

// NewHub initializes the registry with functional options.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		sessions:  make(map[uuid.UUID]map[uint64]Connector),
		startedAt: time.Now(),
		logger:    slog.Default(),
		observer:  nopObserver{},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// NextConnID draws a process-monotonic connection id. Ids start at 1 and are
// unique for the lifetime of the process, so collisions inside one session
// cannot occur in normal operation.
func (h *Hub) NextConnID() uint64 {
	return h.connSeq.Add(1)
}

// Insert registers conn under (sessionID, conn.GetID()), creating the
// session entry if absent.
func (h *Hub) Insert(sessionID uuid.UUID, conn Connector) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[sessionID]
	if !ok {
		session = make(map[uint64]Connector)
		h.sessions[sessionID] = session
	}

	connID := conn.GetID()
	if _, taken := session[connID]; taken {
		// Leave the session map as-is; an empty map can only have been
		// created above, and a colliding id implies it was not empty.
		return ErrConnIDTaken
	}
	session[connID] = conn

	h.logger.Info("user joined session",
		"user", conn.GetIdentity().Name,
		"user_id", conn.GetIdentity().Sub,
		"session_id", sessionID,
		"conn_id", connID,
		"session_size", len(session))
	return nil
}

// Remove deletes the connection if present. The session entry is erased in
// the same critical section when the last connection leaves, so an empty
// session is never observable.
func (h *Hub) Remove(sessionID uuid.UUID, connID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	if _, ok := session[connID]; !ok {
		return
	}

	delete(session, connID)
	h.logger.Info("connection removed from session", "conn_id", connID, "session_id", sessionID)

	if len(session) == 0 {
		delete(h.sessions, sessionID)
		h.logger.Info("session empty and removed", "session_id", sessionID)
	}
}

// Broadcast enqueues payload onto every mailbox in the session except the
// one whose id equals skipID. Full mailboxes drop the payload for that
// recipient only; healthy peers are never delayed by a slow one.
func (h *Hub) Broadcast(sessionID uuid.UUID, payload string, skipID uint64) (delivered, dropped int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[sessionID]
	if !ok {
		h.observer.BroadcastMiss()
		h.logger.Warn("broadcast to unknown session", "session_id", sessionID)
		return 0, 0
	}

	for id, conn := range session {
		if skipID != NoSkip && id == skipID {
			continue
		}
		if conn.Push(payload) {
			delivered++
		} else {
			dropped++
			h.logger.Warn("mailbox full, payload dropped",
				"conn_id", id,
				"user", conn.GetIdentity().Name,
				"session_id", sessionID)
		}
	}

	h.observer.BroadcastResult(delivered, dropped)
	return delivered, dropped
}

// LookupIdentity returns the identity snapshot captured at insert.
func (h *Hub) LookupIdentity(sessionID uuid.UUID, connID uint64) (model.Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[sessionID]
	if !ok {
		return model.Identity{}, false
	}
	conn, ok := session[connID]
	if !ok {
		return model.Identity{}, false
	}
	return conn.GetIdentity(), true
}

// Stats reports a point-in-time snapshot of the registry.
func (h *Hub) Stats() model.HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += len(session)
	}
	return model.HubStats{
		TotalSessions:    len(h.sessions),
		TotalConnections: total,
		Uptime:           time.Since(h.startedAt),
	}
}

// Shutdown closes every registered connection. Dispatchers observe the close
// signal and run their own teardown, which empties the registry.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, session := range h.sessions {
		for _, conn := range session {
			conn.Close()
		}
	}
}
