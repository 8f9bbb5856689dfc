package relay

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kietpt2003/fpt-playground-realtime/internal/hub"
	"github.com/kietpt2003/fpt-playground-realtime/internal/metrics"
	"github.com/kietpt2003/fpt-playground-realtime/internal/pubsub"
)

// Relay subscribes to the shared broadcast channel and pushes received
// messages to the connections living on this process. It is the only path by
// which a message produced on another instance reaches clients here.
type Relay struct {
	hub     *hub.Hub
	channel pubsub.Channel
	origin  string
	logger  zerolog.Logger
	once    sync.Once
}

// NewRelay creates a relay for this instance. origin must match the origin
// the local hub stamps on published envelopes.
func NewRelay(h *hub.Hub, ch pubsub.Channel, origin string, logger zerolog.Logger) *Relay {
	return &Relay{
		hub:     h,
		channel: ch,
		origin:  origin,
		logger:  logger.With().Str("component", "relay").Logger(),
	}
}

// Start subscribes to the broadcast channel and begins relaying. Repeated
// calls are no-ops; the subscription is opened exactly once. The relay stops
// when ctx is canceled.
func (r *Relay) Start(ctx context.Context) error {
	var err error
	r.once.Do(func() {
		var envelopes <-chan *pubsub.Envelope
		envelopes, err = r.channel.Subscribe(ctx)
		if err != nil {
			return
		}
		go r.run(ctx, envelopes)
	})
	return err
}

func (r *Relay) run(ctx context.Context, envelopes <-chan *pubsub.Envelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-envelopes:
			if !ok {
				return
			}
			r.handle(env)
		}
	}
}

func (r *Relay) handle(env *pubsub.Envelope) {
	if env.Message == nil {
		r.logger.Warn().Str("origin", env.Origin).Msg("skipping envelope without message")
		return
	}
	// The producing instance already delivered to its own connections.
	if env.Origin == r.origin {
		return
	}

	switch env.Event {
	case pubsub.EventDirectMessage:
		r.hub.DeliverToUser(env.RecipientID, env.Event, env.Message)
	case pubsub.EventRoomMessage:
		r.hub.DeliverToRoom(env.Message.ConversationID, env.Event, env.Message)
	default:
		r.logger.Warn().Str("event", env.Event).Msg("skipping envelope with unknown event")
		return
	}
	metrics.MessagesRelayed.Inc()
}
