// ════════════════════════════════════════════════════════════════════════════════════════════════
// 🚰 FILL FEED
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: ndhist
// Component: Concurrent Fill Hand-Off
//
// Description:
//   Lets one producer goroutine stream fills into a histogram owned by a
//   dedicated consumer goroutine. Rows travel through a lock-free SPSC ring;
//   the histogram itself stays single-writer and needs no locking.
//
// Consumer spin policy:
//   - Tight spin while the producer holds the hot flag, or for
//     FeedHotWindow after the last delivered row.
//   - Then yield on every miss and nap FeedIdleSleep after each
//     FeedSpinBudget misses.
//   - On stop, drain whatever is still queued and exit.
//
// Ownership:
//   The histogram belongs to the consumer from Start until Close returns.
//   Reading it in between is a data race.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package feed

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"ndhist/constants"
	"ndhist/debug"
	"ndhist/histogram"
	"ndhist/ring"
)

// ErrClosed reports a fill offered after Close.
var ErrClosed = errors.New("feed closed")

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TYPE DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Feed is the producer-side handle. Its methods belong to one producer
// goroutine, except Stats which may be called from anywhere.
type Feed struct {
	r    *ring.Ring[[]any]
	h    *histogram.Histogram
	done chan struct{}

	stop   atomic.Uint32
	hot    atomic.Uint32
	closed bool

	filled atomic.Uint64
	failed atomic.Uint64
	err    error // first failed fill; published by close(done)
}

type config struct {
	capacity int
	core     int
}

// Option configures Start.
type Option func(*config)

// WithCapacity sets the ring size. It must be a power of two.
func WithCapacity(n int) Option { return func(c *config) { c.capacity = n } }

// WithCore pins the consumer thread to a logical CPU where the platform
// supports it. Negative values leave it unpinned.
func WithCore(core int) Option { return func(c *config) { c.core = core } }

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Start launches the consumer for h and returns the producer handle.
// It panics when the capacity is not a power of two.
func Start(h *histogram.Histogram, opts ...Option) *Feed {
	cfg := config{capacity: constants.FeedCapacity, core: -1}
	for _, o := range opts {
		o(&cfg)
	}
	f := &Feed{
		r:    ring.New[[]any](cfg.capacity),
		h:    h,
		done: make(chan struct{}),
	}
	go f.consume(cfg.core)
	return f
}

// Close stops accepting rows, waits until every queued row is applied and
// returns the first fill error, if any. Calling it again returns the same
// result.
func (f *Feed) Close() error {
	if !f.closed {
		f.closed = true
		f.stop.Store(1)
	}
	<-f.done
	return f.err
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// PRODUCER
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// TryFill queues one row without blocking. It reports false when the ring
// is full or the feed is closed. coords is retained until the consumer has
// applied it and must not be modified afterwards.
func (f *Feed) TryFill(coords ...any) bool {
	if f.closed {
		return false
	}
	return f.r.Push(coords)
}

// Fill queues one row, yielding while the ring is full, until it is queued
// or ctx ends.
func (f *Feed) Fill(ctx context.Context, coords ...any) error {
	if f.closed {
		return ErrClosed
	}
	for !f.r.Push(coords) {
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
	return nil
}

// SetHot keeps the consumer in its tight spin while on is true, for
// bursts whose gaps exceed the hot window.
func (f *Feed) SetHot(on bool) {
	if on {
		f.hot.Store(1)
	} else {
		f.hot.Store(0)
	}
}

// Stats reports how many rows the consumer has applied and rejected so far.
func (f *Feed) Stats() (filled, failed uint64) {
	return f.filled.Load(), f.failed.Load()
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONSUMER
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func (f *Feed) consume(core int) {
	runtime.LockOSThread()
	if core >= 0 {
		pin(core)
	}
	defer func() {
		runtime.UnlockOSThread()
		close(f.done)
	}()

	last := time.Now() // last time Pop delivered
	miss := 0
	for {
		if row, ok := f.r.Pop(); ok {
			f.apply(row)
			last, miss = time.Now(), 0
			continue
		}

		if f.stop.Load() != 0 {
			// Rows pushed between the failed Pop and the stop flag.
			for row, ok := f.r.Pop(); ok; row, ok = f.r.Pop() {
				f.apply(row)
			}
			return
		}

		if f.hot.Load() != 0 || time.Since(last) <= constants.FeedHotWindow {
			continue
		}

		if miss++; miss >= constants.FeedSpinBudget {
			miss = 0
			time.Sleep(constants.FeedIdleSleep)
			continue
		}
		runtime.Gosched()
	}
}

func (f *Feed) apply(row []any) {
	if err := f.h.Fill(row...); err != nil {
		if f.failed.Add(1) == 1 {
			f.err = err
			debug.DropError("FEED_FILL", err)
		}
		return
	}
	f.filled.Add(1)
}
