package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
)

// One global list shared by every conversation and every server instance.
// Persistence throughput serializes through this key; accepted at the scale
// this system targets.
const pendingMessagesKey = "chat:messages:pending"

// RedisQueue implements Queue on a Redis list. RPUSH appends to the tail,
// LPOP removes the head; LPOP is atomic, which gives the exactly-once claim
// guarantee across concurrent consumers.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue creates a queue over the shared pending-messages list.
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client, key: pendingMessagesKey}
}

// Enqueue appends the serialized message to the tail of the list.
func (q *RedisQueue) Enqueue(ctx context.Context, msg *domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("enqueue message: %w", err)
	}
	return nil
}

// Dequeue atomically removes and returns the head entry, or ErrEmpty. A
// malformed entry is already removed by the time it fails to decode; the
// returned error lets the caller log and move on.
func (q *RedisQueue) Dequeue(ctx context.Context) (*domain.Message, error) {
	data, err := q.client.LPop(ctx, q.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue message: %w", err)
	}

	var msg domain.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode queue entry: %w", err)
	}
	return &msg, nil
}
