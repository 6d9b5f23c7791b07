// internal/historian/historian.go is the service that drains finished games
// from the results queue and persists them to PostgreSQL in batches.
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/jason-s-yu/quizparty/internal/models"
	log "github.com/sirupsen/logrus"
)

// Queue yields archived games. ok is false when nothing arrived within timeout.
type Queue interface {
	Pop(ctx context.Context, timeout time.Duration) (rec models.GameRecord, ok bool, err error)
}

// Store persists a batch of games atomically.
type Store interface {
	RecordGames(ctx context.Context, recs []models.GameRecord) error
}

// StoreFunc adapts a function to Store.
type StoreFunc func(ctx context.Context, recs []models.GameRecord) error

func (f StoreFunc) RecordGames(ctx context.Context, recs []models.GameRecord) error {
	return f(ctx, recs)
}

// Options tune batching.
type Options struct {
	BatchSize  int
	FlushDelay time.Duration
	PopTimeout time.Duration
	// MaxPending caps records held across failed flushes; the oldest are dropped beyond it.
	MaxPending int
}

// HistorianService batches records popped from a Queue into a Store.
type HistorianService struct {
	queue Queue
	store Store
	opts  Options

	batchMu sync.Mutex
	batch   []models.GameRecord
}

func NewHistorianService(q Queue, s Store, opts Options) *HistorianService {
	if opts.BatchSize < 1 {
		opts.BatchSize = 20
	}
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = 500 * time.Millisecond
	}
	if opts.PopTimeout <= 0 {
		opts.PopTimeout = 3 * time.Second
	}
	if opts.MaxPending < opts.BatchSize {
		opts.MaxPending = opts.BatchSize * 50
	}
	return &HistorianService{
		queue: q,
		store: s,
		opts:  opts,
		batch: make([]models.GameRecord, 0, opts.BatchSize),
	}
}

// Run pops until ctx is done, flushing whenever the batch fills and at least
// every FlushDelay. Whatever is still pending is flushed on the way out.
func (hs *HistorianService) Run(ctx context.Context) {
	log.Info("historian started")
	defer log.Info("historian stopped")

	lastFlush := time.Now()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			hs.Flush(flushCtx)
			cancel()
			return
		default:
		}

		rec, ok, err := hs.queue.Pop(ctx, hs.opts.PopTimeout)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Errorf("pop: %v", err)
		case ok:
			if hs.appendToBatch(rec) >= hs.opts.BatchSize {
				hs.Flush(ctx)
				lastFlush = time.Now()
			}
		}

		if time.Since(lastFlush) >= hs.opts.FlushDelay {
			hs.Flush(ctx)
			lastFlush = time.Now()
		}
	}
}

// appendToBatch adds a record and returns the pending count.
func (hs *HistorianService) appendToBatch(rec models.GameRecord) int {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()

	hs.batch = append(hs.batch, rec)
	if over := len(hs.batch) - hs.opts.MaxPending; over > 0 {
		log.Warnf("dropping %d unflushed game records", over)
		hs.batch = append(hs.batch[:0], hs.batch[over:]...)
	}
	return len(hs.batch)
}

// Pending is the number of records waiting for a flush.
func (hs *HistorianService) Pending() int {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()
	return len(hs.batch)
}

// Flush writes the pending batch in one transaction. On failure the records
// stay pending for the next flush.
func (hs *HistorianService) Flush(ctx context.Context) {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()

	if len(hs.batch) == 0 {
		return
	}
	batchCopy := make([]models.GameRecord, len(hs.batch))
	copy(batchCopy, hs.batch)

	if err := hs.store.RecordGames(ctx, batchCopy); err != nil {
		log.WithField("pending", len(batchCopy)).Errorf("flush: %v", err)
		return
	}
	hs.batch = hs.batch[:0]
	log.WithField("games", len(batchCopy)).Info("flushed game records")
}
