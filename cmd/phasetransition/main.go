// Command phasetransition sweeps a measurement-count grid for symmetric
// phase retrieval, printing the empirical success probability per grid
// cell and rendering the mean convergence trajectory of the final cell.
// It plays the role of the external experiment driver: grid generation
// and result handling live here, not in the recovery packages.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	recovery "github.com/wtree101/Compressed-Sensing-General-Platform"
	"github.com/wtree101/Compressed-Sensing-General-Platform/initializer"
	"github.com/wtree101/Compressed-Sensing-General-Platform/projection"
	"github.com/wtree101/Compressed-Sensing-General-Platform/solver"
	"gonum.org/v1/gonum/mat"
)

func main() {
	var (
		d          = flag.Int("d", 20, "signal dimension")
		rank       = flag.Int("rank", 1, "target rank")
		trials     = flag.Int("trials", 20, "trials per grid cell")
		mMin       = flag.Int("mmin", 100, "smallest measurement count")
		mMax       = flag.Int("mmax", 500, "largest measurement count")
		mStep      = flag.Int("mstep", 100, "measurement count step")
		iterations = flag.Int("iterations", 300, "solver iterations")
		step       = flag.Float64("step", 0.3, "solver step size")
		workers    = flag.Int("workers", 0, "parallel trial workers (0 = GOMAXPROCS)")
		seed       = flag.Uint64("seed", 1, "base random seed")
		plotFile   = flag.String("plot", "convergence.png", "convergence plot output (empty to skip)")
	)
	flag.Parse()

	var last *recovery.Aggregate
	fmt.Printf("phase retrieval, d=%v rank=%v, %v trials per cell\n", *d, *rank, *trials)
	for m := *mMin; m <= *mMax; m += *mStep {
		cfg := recovery.TrialConfig{
			Rows: *d, Cols: *d,
			Rank:         *rank,
			Measurements: m,
			Model:        recovery.RankOneGaussian,
			Nonlinearity: recovery.AbsoluteValue,
			Seed:         *seed,
			NewInitializer: func(truth *mat.Dense, rng *rand.Rand) initializer.Initializer {
				return &initializer.PowerMethod{
					Rng:        rng,
					Projection: projection.SymmetricRank{R: *rank},
					Truth:      truth,
				}
			},
			NewSolver: func(truth *mat.Dense, rng *rand.Rand) solver.Solver {
				return &solver.ProjectedAmplitude{
					Iterations: *iterations,
					Step:       *step,
					Projection: projection.SymmetricRank{R: *rank},
					Truth:      truth,
				}
			},
		}
		agg := recovery.RunTrials(cfg, *trials, *workers)
		last = agg
		fmt.Printf("m = %4d  success probability = %.2f  final mean error = %.3e\n",
			m, agg.SuccessProbability, lastValue(agg.MeanErrors))
	}

	if *plotFile != "" && last != nil {
		if err := savePlot(last, *plotFile); err != nil {
			fmt.Fprintf(os.Stderr, "plot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %v\n", *plotFile)
	}
}

func lastValue(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

func savePlot(agg *recovery.Aggregate, filename string) error {
	p := plot.New()
	p.Title.Text = "Mean relative error per iteration"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "relative error"
	p.Y.Scale = plot.LogScale{}

	points := make(plotter.XYs, 0, len(agg.MeanErrors))
	for i, v := range agg.MeanErrors {
		if v > 0 {
			points = append(points, plotter.XY{X: float64(i), Y: v})
		}
	}
	if err := plotutil.AddLinePoints(p, "mean error", points); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
