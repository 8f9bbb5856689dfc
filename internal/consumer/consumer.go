package consumer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
	"github.com/kietpt2003/fpt-playground-realtime/internal/metrics"
	"github.com/kietpt2003/fpt-playground-realtime/internal/queue"
)

// MessageStore persists claimed messages as durable rows.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *domain.Message) error
}

// Pool runs N identical workers draining the shared queue into the store.
// Dequeue is atomic, so any pool size is safe; more workers only add
// throughput. Persistence is best effort: a failed write drops the message,
// because the entry was already removed from the queue by the claim. The
// real-time path is never blocked waiting on storage.
type Pool struct {
	queue    queue.Queue
	store    MessageStore
	workers  int
	interval time.Duration
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

// NewPool creates a consumer pool. workers is clamped to at least 1; interval
// is the idle poll delay, defaulting to one second.
func NewPool(q queue.Queue, store MessageStore, workers int, interval time.Duration, logger zerolog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Pool{
		queue:    q,
		store:    store,
		workers:  workers,
		interval: interval,
		logger:   logger.With().Str("component", "consumer").Logger(),
	}
}

// Start launches the workers. They stop when ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	logger := p.logger.With().Int("worker", id).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := p.queue.Dequeue(ctx)
		switch {
		case errors.Is(err, queue.ErrEmpty):
			if !p.idle(ctx) {
				return
			}
			continue
		case err != nil:
			// Covers both an unreachable queue and an entry that failed to
			// decode after the claim; either way the loop keeps going.
			logger.Error().Err(err).Msg("dequeue failed")
			if !p.idle(ctx) {
				return
			}
			continue
		}

		// The write finishes even during shutdown; the entry is already
		// claimed and would otherwise be lost for nothing.
		if err := p.store.SaveMessage(context.WithoutCancel(ctx), msg); err != nil {
			logger.Error().Err(err).Str("messageId", msg.ID).Msg("persist failed, message dropped")
			metrics.PersistFailures.Inc()
			continue
		}
		metrics.MessagesPersisted.Inc()
	}
}

// idle waits out the poll interval; false means ctx was canceled.
func (p *Pool) idle(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(p.interval):
		return true
	}
}
