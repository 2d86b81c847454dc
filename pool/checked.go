package pool

import (
	"context"
	"sync"
	"time"
)

// itemState tracks which logical set an item currently belongs to.
type itemState uint8

const (
	stateAvailable itemState = iota
	stateCheckedOut
)

// Checked is an ownership-checked variant of Pool.
//
// It keeps an owned set of every item the pool was seeded with and which
// logical state each is in, so contract violations that the plain Pool leaves
// undefined are detected and reported:
//
//   - releasing an item that was never part of the pool returns
//     ErrForeignItem
//   - releasing an item that is already available returns ErrDoubleRelease
//
// The bookkeeping lives outside the pool's own synchronization; the blocking
// behavior and capacity bound are exactly those of Pool.
type Checked[T comparable] struct {
	pool *Pool[T]

	mu    sync.Mutex
	state map[T]itemState
}

// NewChecked creates a Checked pool populated with the given items.
//
// Returns ErrNoItems if the slice is empty and ErrDuplicateItem if the same
// item appears more than once; a duplicated item would make the owned-set
// bookkeeping ambiguous.
func NewChecked[T comparable](items []T) (*Checked[T], error) {
	state := make(map[T]itemState, len(items))
	for _, item := range items {
		if _, dup := state[item]; dup {
			return nil, ErrDuplicateItem
		}
		state[item] = stateAvailable
	}

	p, err := New(items)
	if err != nil {
		return nil, err
	}

	return &Checked[T]{pool: p, state: state}, nil
}

// Acquire removes and returns an item, blocking until one is available or
// ctx is done. See Pool.Acquire.
func (c *Checked[T]) Acquire(ctx context.Context) (T, error) {
	item, err := c.pool.Acquire(ctx)
	if err != nil {
		return item, err
	}
	c.markCheckedOut(item)
	return item, nil
}

// AcquireTimeout is like Acquire but gives up after d, returning
// ErrAcquireTimeout. See Pool.AcquireTimeout.
func (c *Checked[T]) AcquireTimeout(d time.Duration) (T, error) {
	item, err := c.pool.AcquireTimeout(d)
	if err != nil {
		return item, err
	}
	c.markCheckedOut(item)
	return item, nil
}

// TryAcquire removes and returns an item without blocking, or returns
// ErrExhausted. See Pool.TryAcquire.
func (c *Checked[T]) TryAcquire() (T, error) {
	item, err := c.pool.TryAcquire()
	if err != nil {
		return item, err
	}
	c.markCheckedOut(item)
	return item, nil
}

// Release validates that item is a checked-out member of the pool, then
// returns it to the available set, unblocking one waiting acquirer.
//
// Returns ErrForeignItem or ErrDoubleRelease on contract violations; in both
// cases the pool state is left untouched.
func (c *Checked[T]) Release(item T) error {
	c.mu.Lock()
	st, owned := c.state[item]
	if !owned {
		c.mu.Unlock()
		return ErrForeignItem
	}
	if st == stateAvailable {
		c.mu.Unlock()
		return ErrDoubleRelease
	}
	// Flip the state before handing the item back so a concurrent acquirer
	// always observes it as available first.
	c.state[item] = stateAvailable
	c.mu.Unlock()

	c.pool.Release(item)
	return nil
}

// Len returns the number of items currently available. Cap returns the fixed
// capacity.
func (c *Checked[T]) Len() int { return c.pool.Len() }

// Cap returns the pool's fixed capacity.
func (c *Checked[T]) Cap() int { return c.pool.Cap() }

func (c *Checked[T]) markCheckedOut(item T) {
	c.mu.Lock()
	c.state[item] = stateCheckedOut
	c.mu.Unlock()
}
