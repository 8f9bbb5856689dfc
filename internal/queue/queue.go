package queue

import (
	"context"
	"errors"

	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
)

// ErrEmpty is returned by Dequeue when the queue holds no entries. It is not
// an error condition; consumers sleep and poll again.
var ErrEmpty = errors.New("queue is empty")

// Queue is the shared FIFO buffer decoupling message production from durable
// persistence. It is the single coordination point between server instances:
// Dequeue must remove and return the head entry atomically, so that two
// concurrent consumers never claim the same entry.
type Queue interface {
	Enqueue(ctx context.Context, msg *domain.Message) error
	Dequeue(ctx context.Context) (*domain.Message, error)
}
