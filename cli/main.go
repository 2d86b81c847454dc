package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"github.com/GreatValueCreamSoda/gopool/harness"
	"github.com/GreatValueCreamSoda/gopool/ledger"
	"github.com/GreatValueCreamSoda/gopool/metric"
	"github.com/GreatValueCreamSoda/gopool/pool"
	"github.com/GreatValueCreamSoda/gopool/resource"
)

func main() {
	setupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	if settings.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.runTimeout)
		defer cancel()
	}

	if settings.statsd {
		metric.Init(metric.Config{
			Address: settings.statsdAddress,
			Env:     settings.statsdEnv,
			Service: "gopool-demo",
		})
	}

	seed := resource.Factory("res", settings.poolSize)
	borrowLedger := ledger.New(log.Logger)

	cfg := harness.Config{
		Workers: settings.workers,
		Cycles:  settings.iterations,
		Hold:    settings.hold,
	}
	if settings.rateLimit > 0 {
		cfg.Limiter = rate.NewLimiter(rate.Limit(settings.rateLimit),
			settings.workers)
	}

	var report harness.Report
	var err error
	if settings.checked {
		report, err = runChecked(ctx, seed, cfg)
	} else {
		report, err = runObserved(ctx, seed, cfg, borrowLedger)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("workload failed")
	}

	printSummary(report, borrowLedger.Snapshot())
}

// runObserved drives the plain pool through the observer wrapper, feeding
// the borrow ledger and, when enabled, statsd telemetry.
func runObserved(ctx context.Context, seed []*resource.Resource,
	cfg harness.Config, borrowLedger *ledger.Ledger) (harness.Report, error) {

	p, err := pool.New(seed)
	if err != nil {
		return harness.Report{}, err
	}

	observers := []pool.Observer{borrowLedger}
	if settings.statsd {
		observers = append(observers, metric.NewObserver("demo"))
	}
	observed := pool.Observe(p, observers...)

	h, err := harness.New[*resource.Resource](observed, cfg,
		func(_ context.Context, worker string, item *resource.Resource) error {
			borrowLedger.Assign(item, worker)
			item.Use()
			return nil
		})
	if err != nil {
		return harness.Report{}, err
	}

	attachProgressBar(h)
	return h.Run(ctx)
}

// runChecked drives the ownership-checked pool variant. Contract violations
// would surface as rejected releases; a clean run proves none occurred.
func runChecked(ctx context.Context, seed []*resource.Resource,
	cfg harness.Config) (harness.Report, error) {

	p, err := pool.NewChecked(seed)
	if err != nil {
		return harness.Report{}, err
	}

	h, err := harness.New[*resource.Resource](checkedAdapter{p}, cfg,
		func(_ context.Context, _ string, item *resource.Resource) error {
			item.Use()
			return nil
		})
	if err != nil {
		return harness.Report{}, err
	}

	attachProgressBar(h)
	return h.Run(ctx)
}

// checkedAdapter narrows Checked's error-returning Release to the harness
// surface. A rejected release means the harness itself broke the pool
// contract, so it is logged loudly rather than swallowed.
type checkedAdapter struct {
	*pool.Checked[*resource.Resource]
}

func (a checkedAdapter) Release(item *resource.Resource) {
	if err := a.Checked.Release(item); err != nil {
		log.Error().Err(err).Stringer("item", item).Msg("release rejected")
	}
}

func attachProgressBar(h *harness.Harness[*resource.Resource]) {
	if settings.quiet {
		return
	}

	bar := progressbar.NewOptions(settings.iterations,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("cycles"),
		progressbar.OptionClearOnFinish(),
	)
	h.SetProgressCallback(func(done, total int) {
		_ = bar.Set(done)
	})
}

func setupLogging() {
	level, err := zerolog.ParseLevel(settings.logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}
