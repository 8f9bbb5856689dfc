package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// One channel shared by all server instances.
const broadcastChannel = "chat:broadcast"

// RedisChannel implements Channel on Redis PUBLISH/SUBSCRIBE.
type RedisChannel struct {
	client *redis.Client
	name   string
	logger zerolog.Logger
}

// NewRedisChannel creates a channel over the shared broadcast topic.
func NewRedisChannel(client *redis.Client, logger zerolog.Logger) *RedisChannel {
	return &RedisChannel{
		client: client,
		name:   broadcastChannel,
		logger: logger.With().Str("component", "pubsub").Logger(),
	}
}

// Publish sends the envelope to every subscribed instance.
func (c *RedisChannel) Publish(ctx context.Context, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := c.client.Publish(ctx, c.name, data).Err(); err != nil {
		return fmt.Errorf("publish envelope: %w", err)
	}
	return nil
}

// Subscribe opens the subscription and returns a stream of decoded envelopes.
// Malformed payloads are logged and skipped; they never stop the stream. The
// stream closes when ctx is canceled.
func (c *RedisChannel) Subscribe(ctx context.Context) (<-chan *Envelope, error) {
	sub := c.client.Subscribe(ctx, c.name)
	// Confirm the subscription before handing out the stream, so no publish
	// racing with startup is silently missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", c.name, err)
	}

	out := make(chan *Envelope)
	go func() {
		defer close(out)
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-messages:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					c.logger.Error().Err(err).Msg("skipping malformed broadcast payload")
					continue
				}
				select {
				case out <- &env:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
