package scanner

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"gonum.org/v1/gonum/stat"

	"github.com/dquill/optsig/options"
	"github.com/dquill/optsig/signals"
)

const resultBatchSize = 64

// Config controls one scan over a fetched chain.
type Config struct {
	Baseline     signals.BaselineOptions
	RiskReversal signals.RiskReversalOptions
	Tilt         signals.TiltOptions
	Horizons     map[string]int64

	// Quiet suppresses the progress bar and console output.
	Quiet bool
	// MonitorCPU logs CPU usage every 5s while the scan runs.
	MonitorCPU bool
}

// Result is the outcome of a scan: per-expiry signals sorted by expiry plus
// cross-expiry aggregates.
type Result struct {
	Signals []signals.ExpirySignals

	// AverageBaseline and BaselineStdDev summarize the non-nil baseline
	// scores across expiries; nil when no expiry produced a score.
	AverageBaseline *float64
	BaselineStdDev  *float64
}

type job struct {
	expiry    int64
	contracts []options.Contract
}

// Scan computes per-expiry signals concurrently. The signal functions are
// pure, so one worker per CPU simply fans expiries out over the pool.
func Scan(chain map[int64][]options.Contract, indexPrice float64, openInterest map[string]float64, timeline []options.PricePoint, now time.Time, cfg Config) Result {
	jobs := make([]job, 0, len(chain))
	for expiry, contracts := range chain {
		jobs = append(jobs, job{expiry: expiry, contracts: contracts})
	}
	if len(jobs) == 0 {
		return Result{}
	}

	numCPU := runtime.NumCPU()
	if !cfg.Quiet {
		fmt.Printf("Scanning %d expiries for index price %.2f using %d CPUs\n", len(jobs), indexPrice, numCPU)
	}

	var bar *mpb.Bar
	var progress *mpb.Progress
	if !cfg.Quiet {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(jobs)),
			mpb.PrependDecorators(
				decor.Name("Progress"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
	}

	stopMonitor := make(chan struct{})
	if cfg.MonitorCPU {
		go monitorCPUUsage(stopMonitor)
	}

	results := processJobs(jobs, numCPU, indexPrice, openInterest, timeline, now, cfg, bar)
	close(stopMonitor)

	if progress != nil {
		progress.Wait()
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Expiry < results[j].Expiry })

	res := Result{Signals: results}
	var scores []float64
	for _, s := range results {
		if s.Baseline != nil {
			scores = append(scores, *s.Baseline)
		}
	}
	if len(scores) > 0 {
		res.AverageBaseline = options.Float(stat.Mean(scores, nil))
		res.BaselineStdDev = options.Float(stat.StdDev(scores, nil))
	}

	if !cfg.Quiet {
		fmt.Printf("\nScan complete. %d expiries with signals\n", len(results))
	}
	return res
}

func processJobs(jobs []job, numWorkers int, indexPrice float64, openInterest map[string]float64, timeline []options.PricePoint, now time.Time, cfg Config, bar *mpb.Bar) []signals.ExpirySignals {
	var wg sync.WaitGroup
	jobChan := make(chan job, len(jobs))
	resultChan := make(chan signals.ExpirySignals, resultBatchSize)
	var processed int64

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobChan {
				resultChan <- signals.ComputeExpirySignals(signals.SignalInput{
					Expiry:       j.expiry,
					Contracts:    j.contracts,
					IndexPrice:   indexPrice,
					OpenInterest: openInterest,
					Timeline:     timeline,
					AnchorTs:     now.UnixMilli(),
					Horizons:     cfg.Horizons,
					Baseline:     cfg.Baseline,
					RiskReversal: cfg.RiskReversal,
					Tilt:         cfg.Tilt,
				})
				atomic.AddInt64(&processed, 1)
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	go func() {
		for _, j := range jobs {
			jobChan <- j
		}
		close(jobChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var results []signals.ExpirySignals
	for s := range resultChan {
		results = append(results, s)
	}
	return results
}

func monitorCPUUsage(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			percentage, err := cpu.Percent(time.Second, false)
			if err == nil && len(percentage) > 0 {
				fmt.Printf("\nCPU Usage: %.2f%%\n", percentage[0])
			}
		}
	}
}
