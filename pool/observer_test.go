package pool_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GreatValueCreamSoda/gopool/pool"
)

// recordingObserver collects every notification it receives.
type recordingObserver struct {
	mu       sync.Mutex
	acquired []time.Duration
	released int
	blocked  int
}

func (r *recordingObserver) Acquired(_ any, wait time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acquired = append(r.acquired, wait)
}

func (r *recordingObserver) Released(any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released++
}

func (r *recordingObserver) Blocked() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocked++
}

func Test_Observed_NotifiesOnFastPath(t *testing.T) {
	p, err := pool.New([]int{1})
	if err != nil {
		t.Fatal(err)
	}

	rec := new(recordingObserver)
	obs := pool.Observe(p, rec)

	item, err := obs.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	obs.Release(item)

	if len(rec.acquired) != 1 || rec.released != 1 {
		t.Fatalf("expected 1 acquire and 1 release, got %d/%d",
			len(rec.acquired), rec.released)
	}
	if rec.blocked != 0 {
		t.Fatal("fast-path acquire must not report Blocked")
	}
	if rec.acquired[0] != 0 {
		t.Fatalf("fast-path acquire should report zero wait, got %v",
			rec.acquired[0])
	}
}

func Test_Observed_ReportsBlockedWait(t *testing.T) {
	p, err := pool.New([]int{1})
	if err != nil {
		t.Fatal(err)
	}

	rec := new(recordingObserver)
	obs := pool.Observe(p, rec)

	held, err := obs.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		item, err := obs.Acquire(context.Background())
		if err != nil {
			return
		}
		obs.Release(item)
	}()

	time.Sleep(30 * time.Millisecond)
	obs.Release(held)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("blocked acquire did not complete")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.blocked != 1 {
		t.Fatalf("expected exactly one Blocked notification, got %d",
			rec.blocked)
	}
	if len(rec.acquired) != 2 {
		t.Fatalf("expected two Acquired notifications, got %d",
			len(rec.acquired))
	}
	if rec.acquired[1] == 0 {
		t.Fatal("blocked acquire should report a non-zero wait")
	}
}

func Test_Observed_FansOutInOrder(t *testing.T) {
	p, err := pool.New([]int{1})
	if err != nil {
		t.Fatal(err)
	}

	first, second := new(recordingObserver), new(recordingObserver)
	obs := pool.Observe(p, first, second)

	item, err := obs.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	obs.Release(item)

	for i, rec := range []*recordingObserver{first, second} {
		if len(rec.acquired) != 1 || rec.released != 1 {
			t.Fatalf("observer %d missed notifications: %d/%d", i,
				len(rec.acquired), rec.released)
		}
	}
}
