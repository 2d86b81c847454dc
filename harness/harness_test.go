package harness_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/GreatValueCreamSoda/gopool/harness"
	"github.com/GreatValueCreamSoda/gopool/pool"
	"github.com/GreatValueCreamSoda/gopool/resource"
)

func newPool(t *testing.T, capacity int) *pool.Pool[*resource.Resource] {
	t.Helper()
	p, err := pool.New(resource.Factory("item", capacity))
	require.NoError(t, err)
	return p
}

func TestNew_Validation(t *testing.T) {
	p := newPool(t, 1)

	_, err := harness.New[*resource.Resource](nil, harness.Config{
		Workers: 1, Cycles: 1}, nil)
	assert.Error(t, err)

	_, err = harness.New[*resource.Resource](p,
		harness.Config{Workers: 0, Cycles: 1}, nil)
	assert.Error(t, err)

	_, err = harness.New[*resource.Resource](p,
		harness.Config{Workers: 1, Cycles: 0}, nil)
	assert.Error(t, err)
}

func TestRun_CompletesAllCycles(t *testing.T) {
	p := newPool(t, 2)

	h, err := harness.New(p, harness.Config{Workers: 4, Cycles: 40},
		func(_ context.Context, _ string, item *resource.Resource) error {
			item.Use()
			return nil
		})
	require.NoError(t, err)

	report, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, report.Cycles)
	assert.Len(t, report.Waits, 40)
	assert.LessOrEqual(t, report.MaxInFlight, p.Cap())
	assert.GreaterOrEqual(t, report.MaxInFlight, 1)

	total := 0
	for _, n := range report.PerWorker {
		total += n
	}
	assert.Equal(t, 40, total)
	assert.Equal(t, p.Cap(), p.Len(), "all items returned after the run")
}

func TestRun_ProgressCallback(t *testing.T) {
	p := newPool(t, 1)

	h, err := harness.New[*resource.Resource](p,
		harness.Config{Workers: 2, Cycles: 10}, nil)
	require.NoError(t, err)

	var calls int
	var lastDone, lastTotal int
	h.SetProgressCallback(func(done, total int) {
		calls++
		lastDone, lastTotal = done, total
	})

	_, err = h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, calls)
	assert.Equal(t, 10, lastDone)
	assert.Equal(t, 10, lastTotal)
}

func TestRun_WorkErrorCancelsRun(t *testing.T) {
	p := newPool(t, 2)

	boom := errors.New("work failed")
	h, err := harness.New(p, harness.Config{Workers: 3, Cycles: 100},
		func(context.Context, string, *resource.Resource) error {
			return boom
		})
	require.NoError(t, err)

	_, err = h.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, p.Cap(), p.Len(),
		"items are released even when work fails")
}

func TestRun_RespectsRateLimiter(t *testing.T) {
	p := newPool(t, 4)

	// 5 cycles at 100/s with burst 1: at least ~40ms of pacing.
	h, err := harness.New[*resource.Resource](p, harness.Config{
		Workers: 2,
		Cycles:  5,
		Limiter: rate.NewLimiter(rate.Limit(100), 1),
	}, nil)
	require.NoError(t, err)

	start := time.Now()
	report, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Cycles)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRun_ContextCancel(t *testing.T) {
	p := newPool(t, 1)

	h, err := harness.New[*resource.Resource](p, harness.Config{
		Workers: 2,
		Cycles:  1000,
		Hold:    5 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	report, err := h.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, report.Cycles, 1000)
}

func TestRun_DrivesObservedPool(t *testing.T) {
	p := newPool(t, 2)
	obs := pool.Observe(p)

	h, err := harness.New[*resource.Resource](obs, harness.Config{
		Workers: 4, Cycles: 20}, nil)
	require.NoError(t, err)

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, report.Cycles)
}
