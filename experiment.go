package recovery

import (
	"math/rand/v2"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"
)

// Aggregate is the folded outcome of a batch of independent trials:
// element-wise mean diagnostic trajectories and the empirical success
// probability. Per-trial detail is discarded once folded.
type Aggregate struct {
	MeanErrors []float64
	MeanLosses []float64
	// SuccessProbability is the fraction of trials that recovered the
	// signal below the success threshold.
	SuccessProbability float64
	Trials             int
}

// RunTrials repeats RunTrial with independent randomness and folds the
// results. Each trial draws from its own PCG stream keyed by (cfg.Seed,
// trial index), so a batch is reproducible regardless of scheduling and no
// state is shared between trials. Workers of zero or less selects
// GOMAXPROCS.
//
// A failing trial counts as is-success = 0 with whatever partial
// diagnostics it produced; it never aborts the batch.
func RunTrials(cfg TrialConfig, trials, workers int) *Aggregate {
	if trials <= 0 {
		return &Aggregate{}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*TrialResult, trials)
	p := pool.New().WithMaxGoroutines(workers)
	for t := 0; t < trials; t++ {
		p.Go(func() {
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(t)))
			// errors are already reflected in the recorded result
			results[t], _ = RunTrial(cfg, rng)
		})
	}
	p.Wait()

	return fold(results)
}

// fold reduces trial results by a commutative, associative sum: running
// per-index trajectory sums and a success count. Trajectories shorter than
// the longest (a diverged trial's partial record) contribute only to the
// indices they cover.
func fold(results []*TrialResult) *Aggregate {
	length := 0
	for _, res := range results {
		if len(res.Errors) > length {
			length = len(res.Errors)
		}
	}

	sumErrors := make([]float64, length)
	sumLosses := make([]float64, length)
	counts := make([]float64, length)
	successes := make([]float64, len(results))

	for t, res := range results {
		for i := range res.Errors {
			sumErrors[i] += res.Errors[i]
			counts[i]++
		}
		for i := range res.Losses {
			sumLosses[i] += res.Losses[i]
		}
		if res.Success {
			successes[t] = 1
		}
	}
	for i := range sumErrors {
		if counts[i] > 0 {
			sumErrors[i] /= counts[i]
			sumLosses[i] /= counts[i]
		}
	}

	return &Aggregate{
		MeanErrors:         sumErrors,
		MeanLosses:         sumLosses,
		SuccessProbability: stat.Mean(successes, nil),
		Trials:             len(results),
	}
}
