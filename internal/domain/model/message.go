package model

import "github.com/google/uuid"

// ChatMessage is the inbound client frame. Fields beyond Content are ignored
// on decode.
type ChatMessage struct {
	Content string `json:"content"`
}

// Sender identifies the originator of a fanned-out chat message.
type Sender struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ChatEnvelope is the outbound fan-out frame for client-originated messages.
type ChatEnvelope struct {
	Type    string `json:"type"`
	Sender  Sender `json:"sender"`
	Content string `json:"content"`
}

// SystemBroadcast is the outbound frame for bus-originated session events.
//
// The key casing is frozen wire contract: clients read "type"/"sessionId"
// while the bus speaks "event_type"/"session_id". Do not harmonize the two
// without a client migration.
type SystemBroadcast struct {
	Type      string    `json:"type"`
	SessionID uuid.UUID `json:"sessionId"`
}

// SessionEvent is the inbound bus payload on session lifecycle subjects.
type SessionEvent struct {
	EventType string    `json:"event_type"`
	SessionID uuid.UUID `json:"session_id"`
}

// EgressEvent is the payload published to the bus for every accepted
// client chat message.
type EgressEvent struct {
	EventType string    `json:"event_type"`
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
}
