// Package pool provides a generic, fixed-capacity pool of reusable objects
// with blocking acquire semantics.
//
// A pool is constructed once from a fully-populated slice of items; its
// capacity is fixed at the slice length and never grows. Acquire hands out an
// item, blocking while none are available, and Release returns one, waking a
// single blocked acquirer. The pool is safe for concurrent use by any number
// of goroutines.
package pool

import (
	"context"
	"time"
)

// Pool is a generic, channel-based object pool that provides blocking
// semantics for acquiring objects.
//
// The pool has a fixed capacity, specified at creation time as the length of
// the seed slice. It is for scenarios where a bounded set of
// expensive-to-construct objects must be shared between goroutines and the
// number of concurrently live objects must never exceed the bound:
//
//   - Acquire() blocks until an object is available in the pool or the
//     caller's context is done.
//   - Release() never blocks; it hands the object back and unblocks exactly
//     one waiting Acquire(), if any.
//
// Important characteristics:
//   - No ordering guarantee exists between multiple blocked Acquire() calls.
//     Any released object may be handed to any one of them.
//   - The pool does not inspect or reset the objects it stores; callers that
//     need per-use cleanup should do it before Release().
//   - Releasing an object that was not acquired from this pool, or releasing
//     the same object twice, violates the caller contract and corrupts the
//     capacity bound. Use Checked when that contract should be enforced.
type Pool[T any] struct {
	items chan T
}

// New creates a Pool populated with the given items. The pool's capacity is
// fixed at len(items) for its entire lifetime.
//
// Returns ErrNoItems if the slice is empty.
func New[T any](items []T) (*Pool[T], error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	p := &Pool[T]{items: make(chan T, len(items))}
	for _, item := range items {
		p.items <- item
	}

	return p, nil
}

// Acquire removes and returns an item from the pool, blocking until one is
// available or ctx is done.
//
// If an item is immediately available it is returned without consulting the
// context. Otherwise Acquire waits until a concurrent Release makes an item
// available, or until ctx is done, in which case the zero value of T and
// ctx.Err() are returned.
//
// It is the caller's responsibility to eventually call Release with the
// returned item so it becomes available to other acquirers.
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	select {
	case item := <-p.items:
		return item, nil
	default:
	}

	select {
	case item := <-p.items:
		return item, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AcquireTimeout is like Acquire but gives up after waiting d for an item,
// returning ErrAcquireTimeout. A non-positive d degenerates into TryAcquire
// semantics with ErrAcquireTimeout instead of ErrExhausted.
func (p *Pool[T]) AcquireTimeout(d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	item, err := p.Acquire(ctx)
	if err != nil {
		var zero T
		return zero, ErrAcquireTimeout
	}
	return item, nil
}

// TryAcquire removes and returns an item from the pool without blocking.
// Returns ErrExhausted if no item is currently available.
func (p *Pool[T]) TryAcquire() (T, error) {
	select {
	case item := <-p.items:
		return item, nil
	default:
		var zero T
		return zero, ErrExhausted
	}
}

// Release returns an item to the pool and unblocks one waiting Acquire, if
// any.
//
// Release never blocks as long as the caller contract holds: every released
// item was previously acquired from this pool, so the backing store always
// has room for it. The caller must not use the item after Release without
// re-acquiring it.
func (p *Pool[T]) Release(item T) { p.items <- item }

// Len returns the number of items currently available for acquisition.
func (p *Pool[T]) Len() int { return len(p.items) }

// Cap returns the pool's fixed capacity.
func (p *Pool[T]) Cap() int { return cap(p.items) }
