package wsmarshaller

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/webitel/realtime-session-service/internal/domain/model"
)

const chatMessageType = "chat_message"

// MarshalChatEnvelope wraps an accepted inbound message into the fan-out
// frame peers receive.
func MarshalChatEnvelope(sender model.Identity, content string) ([]byte, error) {
	return json.Marshal(&model.ChatEnvelope{
		Type: chatMessageType,
		Sender: model.Sender{
			ID:   sender.Sub,
			Name: sender.Name,
		},
		Content: content,
	})
}

// MarshalSystemBroadcast builds the frame clients receive for a bus-side
// session lifecycle event. The inbound bus key "event_type" becomes the
// client-facing "type"; both spellings are frozen wire contracts.
func MarshalSystemBroadcast(eventType string, sessionID uuid.UUID) ([]byte, error) {
	return json.Marshal(&model.SystemBroadcast{
		Type:      eventType,
		SessionID: sessionID,
	})
}

// UnmarshalChatMessage decodes an inbound client frame. Unknown fields are
// ignored.
func UnmarshalChatMessage(data []byte) (model.ChatMessage, error) {
	var msg model.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return model.ChatMessage{}, err
	}
	return msg, nil
}
