package metric

import (
	"sync/atomic"
	"time"
)

// Observer implements pool.Observer, translating pool traffic into statsd
// metrics. All counters and timings carry a pool:<name> tag on top of the
// client's global tags.
type Observer struct {
	tags  []string
	inUse atomic.Int64
}

// NewObserver creates an Observer that tags every metric with the given pool
// name.
func NewObserver(poolName string) *Observer {
	return &Observer{tags: BuildTag(NewTag(TagPool, poolName))}
}

// Acquired reports one acquisition: a count, the blocked wait (zero on the
// fast path), and the new in-use gauge.
func (o *Observer) Acquired(_ any, wait time.Duration) {
	held := o.inUse.Add(1)
	Incr(PoolAcquireCount, o.tags)
	Timing(PoolAcquireWait, wait, o.tags)
	Gauge(PoolInUse, float64(held), o.tags)
}

// Released reports one release and the new in-use gauge.
func (o *Observer) Released(any) {
	held := o.inUse.Add(-1)
	Incr(PoolReleaseCount, o.tags)
	Gauge(PoolInUse, float64(held), o.tags)
}

// Blocked reports an acquire that found the pool empty.
func (o *Observer) Blocked() {
	Incr(PoolBlockedCount, o.tags)
}

// InUse returns the number of items this observer currently believes are
// checked out.
func (o *Observer) InUse() int64 { return o.inUse.Load() }
