package pool_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GreatValueCreamSoda/gopool/pool"
)

func Test_NewChecked_RejectsDuplicates(t *testing.T) {
	if _, err := pool.NewChecked([]string{"a", "b", "a"}); !errors.Is(
		err, pool.ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
}

func Test_Checked_RoundTrip(t *testing.T) {
	p, err := pool.NewChecked([]string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}

	item, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Release(item); err != nil {
		t.Fatalf("releasing a checked-out item should succeed: %v", err)
	}
	if p.Len() != p.Cap() {
		t.Fatalf("expected a full pool, got %d/%d", p.Len(), p.Cap())
	}
}

func Test_Checked_ForeignItemRejected(t *testing.T) {
	p, err := pool.NewChecked([]string{"a"})
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Release("stranger"); !errors.Is(err, pool.ErrForeignItem) {
		t.Fatalf("expected ErrForeignItem, got %v", err)
	}
	if p.Len() != 1 {
		t.Fatal("rejected release must not change the available set")
	}
}

func Test_Checked_DoubleReleaseRejected(t *testing.T) {
	p, err := pool.NewChecked([]string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}

	item, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Release(item); err != nil {
		t.Fatal(err)
	}
	if err := p.Release(item); !errors.Is(err, pool.ErrDoubleRelease) {
		t.Fatalf("expected ErrDoubleRelease, got %v", err)
	}
	if p.Len() != p.Cap() {
		t.Fatalf("double release corrupted the available set: %d/%d",
			p.Len(), p.Cap())
	}
}

func Test_Checked_NeverAcquiredReleaseRejected(t *testing.T) {
	p, err := pool.NewChecked([]string{"a"})
	if err != nil {
		t.Fatal(err)
	}

	// "a" is a pool member but currently available, not checked out.
	if err := p.Release("a"); !errors.Is(err, pool.ErrDoubleRelease) {
		t.Fatalf("expected ErrDoubleRelease, got %v", err)
	}
}

func Test_Checked_TryAndTimeoutDelegate(t *testing.T) {
	p, err := pool.NewChecked([]int{1})
	if err != nil {
		t.Fatal(err)
	}

	item, err := p.TryAcquire()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.TryAcquire(); !errors.Is(err, pool.ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if _, err := p.AcquireTimeout(20 * time.Millisecond); !errors.Is(
		err, pool.ErrAcquireTimeout) {
		t.Fatalf("expected ErrAcquireTimeout, got %v", err)
	}

	if err := p.Release(item); err != nil {
		t.Fatal(err)
	}
}
