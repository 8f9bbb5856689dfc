package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageType tags what kind of content a message carries.
type MessageType string

const (
	MessageTypeText   MessageType = "Text"
	MessageTypeImage  MessageType = "Image"
	MessageTypeSystem MessageType = "System"
)

// Message is the unit of work flowing through the pipeline. The same logical
// entity exists as a transient object at the gateway, a serialized payload in
// the queue and broadcast channel, and a durable row in Postgres; the JSON
// tags define the wire shape shared by the latter two.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	SenderID       string      `json:"senderId,omitempty"`
	MaskedSenderID string      `json:"maskedSenderId,omitempty"`
	Content        string      `json:"content"`
	Type           MessageType `json:"type"`
	ParentID       string      `json:"parentId,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// NewMessage creates a user message. ID and CreatedAt are assigned here, once;
// Type is derived from the content.
func NewMessage(conversationID, senderID, maskedSenderID, parentID, content string) *Message {
	return &Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		MaskedSenderID: maskedSenderID,
		Content:        content,
		Type:           ClassifyContent(content),
		ParentID:       parentID,
		CreatedAt:      time.Now(),
	}
}

// NewSystemMessage creates a message typed System, bypassing classification.
func NewSystemMessage(conversationID, content string) *Message {
	return &Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Content:        content,
		Type:           MessageTypeSystem,
		CreatedAt:      time.Now(),
	}
}
