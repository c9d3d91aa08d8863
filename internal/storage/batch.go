package storage

import (
	"context"
	"fmt"
	"log"

	"seeder/internal/records"
)

// FlushFn persists one batch of records.
type FlushFn func(ctx context.Context, recs []records.Record) error

// Batcher accumulates records up to a fixed size and flushes them through a
// persist callback. It replaces the accumulate-then-flush loops of the
// seeding routines with one reusable, entity-agnostic abstraction: callers
// Add records one at a time and call Flush once at the end for the remainder.
//
// Batcher is not safe for concurrent use; the pipeline is strictly
// sequential by design.
type Batcher struct {
	name  string
	size  int
	flush FlushFn

	pending []records.Record
	flushed int64
	batches int
}

// NewBatcher constructs a Batcher. name is used in progress logs, size is
// the flush threshold (must be > 0).
func NewBatcher(name string, size int, flush FlushFn) (*Batcher, error) {
	if size <= 0 {
		return nil, fmt.Errorf("storage: batch size must be > 0, got %d", size)
	}
	if flush == nil {
		return nil, fmt.Errorf("storage: flush callback must not be nil")
	}
	return &Batcher{
		name:    name,
		size:    size,
		flush:   flush,
		pending: make([]records.Record, 0, size),
	}, nil
}

// Add appends rec and flushes when the batch threshold is reached. The first
// flush error is returned and leaves the failed batch unrecoverable, matching
// the pipeline's no-partial-retry policy.
func (b *Batcher) Add(ctx context.Context, rec records.Record) error {
	b.pending = append(b.pending, rec)
	if len(b.pending) >= b.size {
		return b.Flush(ctx)
	}
	return nil
}

// Flush persists any pending records. It is a no-op when the batch is empty,
// so callers can always invoke it once after their Add loop.
func (b *Batcher) Flush(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}
	n := len(b.pending)
	if err := b.flush(ctx, b.pending); err != nil {
		return fmt.Errorf("storage: flush %s batch of %d: %w", b.name, n, err)
	}

	// Reuse allocated slice; keep capacity to avoid churn.
	b.pending = b.pending[:0]
	b.flushed += int64(n)
	b.batches++
	log.Printf("%s: batch #%d flushed rows=%d total=%d", b.name, b.batches, n, b.flushed)
	return nil
}

// Flushed returns the number of records successfully persisted so far.
func (b *Batcher) Flushed() int64 { return b.flushed }
