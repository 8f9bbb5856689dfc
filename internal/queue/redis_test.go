package queue

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
)

func newTestQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisQueue(client), mr
}

func TestQueueFIFOOrder(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	first := domain.NewMessage("c1", "u1", "", "", "first")
	second := domain.NewMessage("c1", "u1", "", "", "second")
	third := domain.NewMessage("c2", "u2", "", "", "third")

	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))
	require.NoError(t, q.Enqueue(ctx, third))

	for _, want := range []*domain.Message{first, second, third} {
		got, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Content, got.Content)
	}
}

func TestDequeueEmptyReturnsErrEmpty(t *testing.T) {
	q, _ := newTestQueue(t)

	msg, err := q.Dequeue(context.Background())
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestQueueRoundTripPreservesFields(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	sent := domain.NewMessage("c1", "", "mask-3", "parent-9", "https://x.com/a.jpg?ts=1")
	require.NoError(t, q.Enqueue(ctx, sent))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, sent.ConversationID, got.ConversationID)
	assert.Equal(t, sent.MaskedSenderID, got.MaskedSenderID)
	assert.Equal(t, sent.ParentID, got.ParentID)
	assert.Equal(t, sent.Content, got.Content)
	assert.Equal(t, domain.MessageTypeImage, got.Type)
	assert.True(t, sent.CreatedAt.Equal(got.CreatedAt))
}

func TestMalformedEntryIsClaimedAndReported(t *testing.T) {
	q, mr := newTestQueue(t)
	ctx := context.Background()

	_, err := mr.RPush(q.key, "not-json")
	require.NoError(t, err)

	msg, err := q.Dequeue(ctx)
	assert.Nil(t, msg)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmpty)

	// The bad entry was removed by the claim.
	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestConcurrentConsumersClaimEachEntryOnce(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	const total = 100
	for i := 0; i < total; i++ {
		require.NoError(t, q.Enqueue(ctx, domain.NewMessage("c1", "u1", "", "", "m")))
	}

	var mu sync.Mutex
	claimed := make(map[string]int)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				msg, err := q.Dequeue(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				claimed[msg.ID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, claimed, total)
	for id, n := range claimed {
		assert.Equal(t, 1, n, "entry %s claimed %d times", id, n)
	}
}
