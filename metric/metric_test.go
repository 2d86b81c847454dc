package metric_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GreatValueCreamSoda/gopool/metric"
)

func TestBuildTag(t *testing.T) {
	tags := metric.BuildTag(
		metric.NewTag(metric.TagEnv, "dev"),
		metric.NewTag(metric.TagPool, "demo"),
	)
	assert.Equal(t, []string{"env:dev", "pool:demo"}, tags)
}

func TestTagAsString(t *testing.T) {
	assert.Equal(t, "service:gopool",
		metric.TagAsString(metric.TagService, "gopool"))
}

// The statsd client writes UDP fire-and-forget, so the observer can be
// exercised without an agent listening.
func TestObserver_TracksInUse(t *testing.T) {
	obs := metric.NewObserver("demo")
	assert.Zero(t, obs.InUse())

	obs.Acquired("a", 0)
	obs.Acquired("b", 3*time.Millisecond)
	assert.Equal(t, int64(2), obs.InUse())

	obs.Blocked()
	assert.Equal(t, int64(2), obs.InUse(), "Blocked does not change in-use")

	obs.Released("a")
	obs.Released("b")
	assert.Zero(t, obs.InUse())
}
