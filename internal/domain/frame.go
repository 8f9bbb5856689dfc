package domain

import "time"

// Frame is the standard envelope for every frame exchanged with a client over
// the WebSocket connection, in both directions.
type Frame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// JoinRoomPayload is the payload of a "join" request.
type JoinRoomPayload struct {
	ConversationID string `json:"conversationId"`
}

// SendDirectPayload is the payload of a "send_direct" request. Exactly one of
// SenderID and MaskedSenderID must be set.
type SendDirectPayload struct {
	SenderID       string `json:"senderId,omitempty"`
	MaskedSenderID string `json:"maskedSenderId,omitempty"`
	RecipientID    string `json:"recipientId"`
	ConversationID string `json:"conversationId"`
	ParentID       string `json:"parentId,omitempty"`
	Content        string `json:"content"`
}

// SendRoomPayload is the payload of a "send_room" request.
type SendRoomPayload struct {
	SenderID       string `json:"senderId,omitempty"`
	MaskedSenderID string `json:"maskedSenderId,omitempty"`
	ConversationID string `json:"conversationId"`
	ParentID       string `json:"parentId,omitempty"`
	Content        string `json:"content"`
}

// SystemPayload is the payload of "error_message" frames pushed to a client
// when one of its own invocations fails.
type SystemPayload struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
