package pool

import "errors"

var (
	// ErrNoItems is returned by the constructors when the seed slice is
	// empty. A pool's capacity equals the number of seed items, so an empty
	// slice would produce a pool no Acquire could ever succeed against.
	ErrNoItems = errors.New("pool: no seed items provided")

	// ErrExhausted is returned by TryAcquire when no item is currently
	// available.
	ErrExhausted = errors.New("pool: no item available")

	// ErrAcquireTimeout is returned by AcquireTimeout when the deadline
	// elapses before an item becomes available.
	ErrAcquireTimeout = errors.New("pool: acquire timed out")

	// ErrDuplicateItem is returned by NewChecked when the seed slice
	// contains the same item more than once.
	ErrDuplicateItem = errors.New("pool: duplicate item in seed slice")

	// ErrForeignItem is returned by Checked.Release for an item that was
	// never part of the pool.
	ErrForeignItem = errors.New("pool: item does not belong to this pool")

	// ErrDoubleRelease is returned by Checked.Release for an item that is
	// already available, i.e. it was released twice without an intervening
	// acquire.
	ErrDoubleRelease = errors.New("pool: item already released")
)
