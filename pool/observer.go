package pool

import (
	"context"
	"time"
)

// Observer receives notifications about pool traffic. Implementations must be
// safe for concurrent use; hooks may be invoked from any goroutine driving
// the pool.
//
// Hooks run outside the pool's synchronization, strictly after the operation
// they describe. A slow observer slows its caller, not other pool users.
type Observer interface {
	// Acquired is called after an item has been handed out. wait is the
	// time the caller spent blocked, zero when the item was immediately
	// available.
	Acquired(item any, wait time.Duration)

	// Released is called after an item has been returned to the pool.
	Released(item any)

	// Blocked is called when an acquire finds the pool empty and begins
	// waiting.
	Blocked()
}

// Observed decorates a Pool with observer notifications. It is created with
// Observe and exposes the same acquire/release surface as the pool it wraps.
type Observed[T any] struct {
	pool      *Pool[T]
	observers []Observer
}

// Observe wraps p so that every acquire and release is reported to the given
// observers, in order. The underlying pool remains usable directly; only
// traffic through the wrapper is observed.
func Observe[T any](p *Pool[T], observers ...Observer) *Observed[T] {
	return &Observed[T]{pool: p, observers: observers}
}

// Acquire acquires an item from the underlying pool, timing any blocked wait
// and notifying observers. See Pool.Acquire.
func (o *Observed[T]) Acquire(ctx context.Context) (T, error) {
	if item, err := o.pool.TryAcquire(); err == nil {
		for _, obs := range o.observers {
			obs.Acquired(item, 0)
		}
		return item, nil
	}

	for _, obs := range o.observers {
		obs.Blocked()
	}

	start := time.Now()
	item, err := o.pool.Acquire(ctx)
	if err != nil {
		return item, err
	}

	wait := time.Since(start)
	for _, obs := range o.observers {
		obs.Acquired(item, wait)
	}
	return item, nil
}

// Release returns an item to the underlying pool and notifies observers. See
// Pool.Release.
func (o *Observed[T]) Release(item T) {
	o.pool.Release(item)
	for _, obs := range o.observers {
		obs.Released(item)
	}
}

// Len returns the number of items currently available in the underlying
// pool.
func (o *Observed[T]) Len() int { return o.pool.Len() }

// Cap returns the underlying pool's fixed capacity.
func (o *Observed[T]) Cap() int { return o.pool.Cap() }
