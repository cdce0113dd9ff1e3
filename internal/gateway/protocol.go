package gateway

import (
	"encoding/json"

	"github.com/dancloud/chat/internal/entity"
)

// Event is the envelope for every frame pushed to a client
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessageData is the payload of a message.new event
type NewMessageData struct {
	Message      *entity.MessageInfo      `json:"message"`
	Conversation *entity.ConversationInfo `json:"conversation"`
}

// EncodeEvent marshals an event payload into a framed Event
func EncodeEvent(eventType string, payload interface{}) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return json.Marshal(Event{Type: eventType, Data: data})
}
