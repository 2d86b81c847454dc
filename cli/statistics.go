package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/GreatValueCreamSoda/gopool/harness"
	"github.com/GreatValueCreamSoda/gopool/ledger"
)

func printSummary(report harness.Report, entries []ledger.Entry) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run summary")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintf(os.Stderr, "  cycles        : %d\n", report.Cycles)
	fmt.Fprintf(os.Stderr, "  max in flight : %d\n", report.MaxInFlight)

	if len(report.Waits) > 0 {
		printWaitSummary(report.Waits)
	}
	if len(report.PerWorker) > 0 {
		printWorkerSummary(report.PerWorker)
	}
	if len(entries) > 0 {
		printLedgerSummary(entries)
	}
}

func printWaitSummary(waits []time.Duration) {
	n := len(waits)

	values := make([]float64, n)
	for i, w := range waits {
		values[i] = float64(w) / float64(time.Millisecond)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	min := sorted[0]
	max := sorted[n-1]

	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(n)

	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	var variance float64
	for _, v := range values {
		d := v - avg
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)

	name := "Acquire wait (ms)"
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, name)
	fmt.Fprintln(os.Stderr, strings.Repeat("-", len(name)))
	fmt.Fprintf(os.Stderr, "  min     : %.6f\n", min)
	fmt.Fprintf(os.Stderr, "  max     : %.6f\n", max)
	fmt.Fprintf(os.Stderr, "  average : %.6f\n", avg)
	fmt.Fprintf(os.Stderr, "  median  : %.6f\n", median)
	fmt.Fprintf(os.Stderr, "  stddev  : %.6f\n", stddev)
}

func printWorkerSummary(perWorker map[string]int) {
	names := make([]string, 0, len(perWorker))
	maxLen := 0
	for name := range perWorker {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	name := "Cycles per worker"
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, name)
	fmt.Fprintln(os.Stderr, strings.Repeat("-", len(name)))
	for _, worker := range names {
		fmt.Fprintf(os.Stderr, "  %-*s : %d\n", maxLen, worker,
			perWorker[worker])
	}
}

func printLedgerSummary(entries []ledger.Entry) {
	maxLen := 0
	for _, e := range entries {
		if len(e.Key) > maxLen {
			maxLen = len(e.Key)
		}
	}

	name := "Borrows per resource"
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, name)
	fmt.Fprintln(os.Stderr, strings.Repeat("-", len(name)))
	for _, e := range entries {
		fmt.Fprintf(os.Stderr, "  %-*s : %d\n", maxLen, e.Key, e.Borrows)
	}
}
