// Package harness drives a pool with a configurable concurrent workload and
// reports how the pool behaved under contention: per-acquire wait latencies,
// per-worker cycle counts, and the highest number of items observed checked
// out at once.
package harness

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ProgressCallback is invoked after every completed borrow cycle.
type ProgressCallback func(done int, total int)

// Pool is the surface the harness drives. Both *pool.Pool[T] and
// *pool.Observed[T] satisfy it.
type Pool[T any] interface {
	Acquire(ctx context.Context) (T, error)
	Release(item T)
	Cap() int
}

// WorkFunc performs one unit of work while holding item. worker identifies
// the borrower goroutine for attribution.
type WorkFunc[T any] func(ctx context.Context, worker string, item T) error

// Config controls the workload shape.
type Config struct {
	// Workers is the number of concurrent borrower goroutines.
	Workers int
	// Cycles is the total number of acquire/release cycles across all
	// workers.
	Cycles int
	// Hold is how long each borrower keeps an item before releasing it.
	Hold time.Duration
	// Limiter optionally throttles cycle starts. Nil means unthrottled.
	Limiter *rate.Limiter
}

// sample is the outcome of one completed borrow cycle.
type sample struct {
	worker string
	wait   time.Duration
}

// Report aggregates a finished run.
type Report struct {
	// Cycles is the number of completed acquire/release cycles.
	Cycles int
	// Waits holds the blocked-wait duration of every acquire, in
	// completion order.
	Waits []time.Duration
	// PerWorker maps worker names to completed cycle counts.
	PerWorker map[string]int
	// MaxInFlight is the highest number of items observed checked out
	// simultaneously.
	MaxInFlight int
}

// Harness orchestrates the borrower workers and result aggregation for one
// pool.
//
// The zero value is not valid; use New to construct an instance.
type Harness[T any] struct {
	pool Pool[T]
	cfg  Config
	work WorkFunc[T]

	// Internal channels for the pipeline stages.
	tickets chan struct{}
	samples chan sample

	inFlight    atomic.Int64
	maxInFlight atomic.Int64

	report Report

	ctx      context.Context
	progress ProgressCallback
}

// New creates and validates a Harness. work may be nil when the workload
// only needs to hold items without touching them.
func New[T any](p Pool[T], cfg Config, work WorkFunc[T]) (*Harness[T], error) {
	if p == nil {
		return nil, errors.New("harness: pool must be non nil")
	}
	if cfg.Workers < 1 {
		return nil, errors.New("harness: at least 1 worker is required")
	}
	if cfg.Cycles < 1 {
		return nil, errors.New("harness: at least 1 cycle is required")
	}

	h := &Harness[T]{
		pool:    p,
		cfg:     cfg,
		work:    work,
		tickets: make(chan struct{}, cfg.Workers),
		samples: make(chan sample, cfg.Workers),
	}
	h.report.PerWorker = make(map[string]int, cfg.Workers)

	return h, nil
}

// SetProgressCallback registers a progress callback on the Harness. It must
// be called before Run. Passing nil clears the callback.
func (h *Harness[T]) SetProgressCallback(cb ProgressCallback) {
	h.progress = cb
}

// Run executes the workload.
//
// It spawns a ticket generator, the configured number of borrower workers,
// and a final aggregation goroutine. Run blocks until every cycle has
// completed or a stage fails, in which case the remaining stages are
// cancelled and the first error is returned.
func (h *Harness[T]) Run(parentCtx context.Context) (Report, error) {
	group, ctx := errgroup.WithContext(parentCtx)
	h.ctx = ctx

	group.Go(func() error {
		defer close(h.tickets)
		return h.generateTickets()
	})

	group.Go(func() error {
		defer close(h.samples)
		return h.spawnBorrowers()
	})

	group.Go(h.aggregateSamples)

	return h.report, group.Wait()
}

// ----------------------------------------------------------------------------
// Ticket generation
// ----------------------------------------------------------------------------

// generateTickets emits one ticket per requested cycle so the total cycle
// count is exact regardless of how workers interleave.
func (h *Harness[T]) generateTickets() error {
	for cycle := 0; cycle < h.cfg.Cycles; cycle++ {
		select {
		case <-h.ctx.Done():
			return h.ctx.Err()
		case h.tickets <- struct{}{}:
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Borrower workers
// ----------------------------------------------------------------------------

// spawnBorrowers starts the configured number of borrower goroutines and
// waits for them to drain the ticket channel.
func (h *Harness[T]) spawnBorrowers() error {
	group, ctx := errgroup.WithContext(h.ctx)

	for i := 0; i < h.cfg.Workers; i++ {
		name := fmt.Sprintf("worker-%d", i+1)
		group.Go(func() error { return h.borrower(ctx, name) })
	}

	return group.Wait()
}

// borrower consumes tickets, performing one full acquire/hold/work/release
// cycle per ticket and reporting a sample for each.
func (h *Harness[T]) borrower(ctx context.Context, name string) error {
	for range withContext(ctx, h.tickets) {
		if h.cfg.Limiter != nil {
			if err := h.cfg.Limiter.Wait(ctx); err != nil {
				return err
			}
		}

		start := time.Now()
		item, err := h.pool.Acquire(ctx)
		if err != nil {
			return err
		}
		wait := time.Since(start)

		if err := h.trackCheckout(); err != nil {
			h.pool.Release(item)
			return err
		}

		err = h.holdAndWork(ctx, name, item)
		h.inFlight.Add(-1)
		h.pool.Release(item)
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case h.samples <- sample{worker: name, wait: wait}:
		}
	}
	return nil
}

// trackCheckout bumps the in-flight counter and fails the run if the pool
// ever hands out more items than its capacity.
func (h *Harness[T]) trackCheckout() error {
	cur := h.inFlight.Add(1)
	if cur > int64(h.pool.Cap()) {
		return fmt.Errorf("harness: %d items in flight from a capacity-%d "+
			"pool", cur, h.pool.Cap())
	}
	for {
		prev := h.maxInFlight.Load()
		if cur <= prev || h.maxInFlight.CompareAndSwap(prev, cur) {
			return nil
		}
	}
}

// holdAndWork keeps the item for the configured hold duration, then runs the
// work function if one was provided.
func (h *Harness[T]) holdAndWork(ctx context.Context, name string, item T) error {
	if h.cfg.Hold > 0 {
		timer := time.NewTimer(h.cfg.Hold)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if h.work == nil {
		return nil
	}
	return h.work(ctx, name, item)
}

// ----------------------------------------------------------------------------
// Aggregation
// ----------------------------------------------------------------------------

// aggregateSamples consumes all samples from the borrowers and accumulates
// them into the Harness's report.
func (h *Harness[T]) aggregateSamples() error {
	for s := range withContext(h.ctx, h.samples) {
		h.report.Cycles++
		h.report.Waits = append(h.report.Waits, s.wait)
		h.report.PerWorker[s.worker]++
		if h.progress != nil {
			h.progress(h.report.Cycles, h.cfg.Cycles)
		}
	}
	h.report.MaxInFlight = int(h.maxInFlight.Load())
	return nil
}

// withContext returns a new read-only channel that mirrors values from the
// input channel ch until either ch is closed or the provided context ctx is
// canceled.
func withContext[T any](ctx context.Context, ch <-chan T) <-chan T {
	out := make(chan T, 1) // buffered to avoid blocking on send

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
