package pubsub

import (
	"context"

	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
)

// Push event names, also used as the frame type on client deliveries.
const (
	EventDirectMessage = "direct_message"
	EventRoomMessage   = "room_message"
)

// Envelope wraps a message for cross-instance fan-out. Origin identifies the
// producing instance so its own relay can skip frames it already delivered
// locally. RecipientID is set for direct sends, so relays on other instances
// can deliver personally instead of by room membership.
type Envelope struct {
	Origin      string          `json:"origin"`
	Event       string          `json:"event"`
	RecipientID string          `json:"recipientId,omitempty"`
	Message     *domain.Message `json:"message"`
}

// Channel is the shared broadcast medium between server instances. Every
// instance subscribes to the same well-known channel; publishing reaches all
// of them.
type Channel interface {
	Publish(ctx context.Context, env *Envelope) error
	Subscribe(ctx context.Context) (<-chan *Envelope, error)
}
