// Package metric emits pool telemetry to a statsd agent. It carries a
// process-wide client initialized once via Init and a pool.Observer that
// reports acquire/release traffic through it.
package metric

import (
	"sync"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog/log"
)

// Metric names emitted by the pool observer.
const (
	PoolAcquireCount = "pool_acquire_count"
	PoolAcquireWait  = "pool_acquire_wait"
	PoolReleaseCount = "pool_release_count"
	PoolBlockedCount = "pool_blocked_count"
	PoolInUse        = "pool_in_use"
)

const defaultAddress = "localhost:8125"

// Config carries the statsd client settings.
type Config struct {
	// Address of the statsd agent. Defaults to localhost:8125.
	Address string
	// Env and Service become global tags on every emitted metric.
	Env     string
	Service string
	// SamplingRate for the client; 0 means full sampling.
	SamplingRate float64
}

var (
	// it is safe to use one client from multiple goroutines simultaneously
	statsDClient = getDefaultClient()
	samplingRate = 0.0
	serviceName  = ""
	initialized  = false
	once         sync.Once
)

// Init initializes the process-wide metrics client. Subsequent calls are
// no-ops.
func Init(cfg Config) {
	if initialized {
		log.Debug().Msg("metrics already initialized")
		return
	}
	once.Do(func() {
		address := cfg.Address
		if address == "" {
			address = defaultAddress
		}
		samplingRate = cfg.SamplingRate
		serviceName = cfg.Service
		globalTags := BuildTag(
			NewTag(TagEnv, cfg.Env),
			NewTag(TagService, cfg.Service),
		)

		client, err := statsd.New(address, statsd.WithTags(globalTags))
		if err != nil {
			log.Panic().Err(err).Msg("statsd client initialization failed")
		}
		statsDClient = client

		log.Info().Msgf("metrics client initialized with address - %s, "+
			"global tags - %v, sampling rate - %f", address, globalTags,
			samplingRate)
		initialized = true
	})
}

func getDefaultClient() *statsd.Client {
	client, _ := statsd.New(defaultAddress)
	return client
}

// Timing sends timing information.
func Timing(name string, value time.Duration, tags []string) {
	err := statsDClient.Timing(name, value, tags, samplingRate)
	if err != nil {
		log.Warn().Err(err).Msg("error occurred while doing statsd timing")
	}
}

// Count increases a metric counter by value.
func Count(name string, value int64, tags []string) {
	err := statsDClient.Count(name, value, tags, samplingRate)
	if err != nil {
		log.Warn().Err(err).Msg("error occurred while doing statsd count")
	}
}

// Incr increases a metric counter by 1.
func Incr(name string, tags []string) {
	Count(name, 1, tags)
}

// Gauge sets a gauge value.
func Gauge(name string, value float64, tags []string) {
	err := statsDClient.Gauge(name, value, tags, samplingRate)
	if err != nil {
		log.Warn().Err(err).Msg("error occurred while doing statsd gauge")
	}
}
