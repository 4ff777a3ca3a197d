package line

import (
	"encoding/json"
	"fmt"
)

// Webhook event discriminators. Only file-attachment message events feed the
// analysis pipeline; everything else is acknowledged and dropped.
const (
	EventTypeMessage = "message"

	MessageTypeFile = "file"
	MessageTypeText = "text"
)

// WebhookBody is the envelope of one webhook call. A single call may carry
// several events.
type WebhookBody struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is one inbound webhook event.
type Event struct {
	Type       string       `json:"type"`
	Timestamp  int64        `json:"timestamp"`
	ReplyToken string       `json:"replyToken"`
	Source     EventSource  `json:"source"`
	Message    EventMessage `json:"message"`
}

// EventSource identifies where an event originated.
type EventSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
}

// EventMessage is the message payload of a message event. The ID is unique
// per delivery attempt; platform retries reuse it.
type EventMessage struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	Text     string `json:"text"`
}

// IsFileMessage reports whether the event carries a file attachment.
func (e Event) IsFileMessage() bool {
	return e.Type == EventTypeMessage && e.Message.Type == MessageTypeFile
}

// ParseWebhookBody decodes a raw webhook request body.
func ParseWebhookBody(payload []byte) (WebhookBody, error) {
	var body WebhookBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return WebhookBody{}, fmt.Errorf("decode webhook body: %w", err)
	}
	return body, nil
}
