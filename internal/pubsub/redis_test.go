package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
)

func newTestChannel(t *testing.T) (*RedisChannel, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisChannel(client, zerolog.Nop()), client
}

func receiveEnvelope(t *testing.T, envelopes <-chan *Envelope) *Envelope {
	t.Helper()
	select {
	case env := <-envelopes:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for envelope")
		return nil
	}
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	ch, _ := newTestChannel(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envelopes, err := ch.Subscribe(ctx)
	require.NoError(t, err)

	sent := &Envelope{
		Origin:      "p1",
		Event:       EventDirectMessage,
		RecipientID: "u2",
		Message:     domain.NewMessage("c1", "u1", "", "", "hello"),
	}
	require.NoError(t, ch.Publish(ctx, sent))

	got := receiveEnvelope(t, envelopes)
	assert.Equal(t, sent.Origin, got.Origin)
	assert.Equal(t, sent.Event, got.Event)
	assert.Equal(t, sent.RecipientID, got.RecipientID)
	require.NotNil(t, got.Message)
	assert.Equal(t, sent.Message.ID, got.Message.ID)
	assert.Equal(t, sent.Message.Content, got.Message.Content)
}

func TestSubscribeSkipsMalformedPayloads(t *testing.T) {
	ch, client := newTestChannel(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envelopes, err := ch.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, client.Publish(ctx, ch.name, "not-json").Err())
	good := &Envelope{
		Origin:  "p1",
		Event:   EventRoomMessage,
		Message: domain.NewMessage("c1", "u1", "", "", "still flowing"),
	}
	require.NoError(t, ch.Publish(ctx, good))

	got := receiveEnvelope(t, envelopes)
	assert.Equal(t, good.Message.ID, got.Message.ID)
}

func TestSubscribeClosesOnCancel(t *testing.T) {
	ch, _ := newTestChannel(t)
	ctx, cancel := context.WithCancel(context.Background())

	envelopes, err := ch.Subscribe(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-envelopes:
		assert.False(t, ok, "stream should be closed after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after cancel")
	}
}
