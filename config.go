// Package recovery orchestrates single recovery trials and their
// aggregation into phase-transition statistics. A trial synthesizes a
// ground truth, instantiates a fresh randomized measurement operator,
// generates (possibly magnitude-only) measurements, seeds a solver through
// the configured initializer and scores recovery success. Trials are
// independent; the aggregator fans them out over a worker pool and folds
// the results into mean trajectories and an empirical success probability.
package recovery

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/initializer"
	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
	"github.com/wtree101/Compressed-Sensing-General-Platform/solver"
)

// SensingModel selects how the per-trial measurement operator is drawn.
type SensingModel int

const (
	// DenseGaussian senses with independent Gaussian measurement matrices.
	DenseGaussian SensingModel = iota
	// SymmetricGaussian symmetrizes each Gaussian measurement matrix;
	// required when the signal is constrained symmetric.
	SymmetricGaussian
	// RankOneGaussian senses with outer products a_i a_i^T, the phase
	// retrieval ensemble.
	RankOneGaussian
	// PartialFourier senses a vector signal with random real Fourier rows.
	PartialFourier
)

// Nonlinearity selects the map applied to the scaled forward measurements
// of the ground truth.
type Nonlinearity int

const (
	// Identity leaves the linear measurements untouched.
	Identity Nonlinearity = iota
	// AbsoluteValue keeps only magnitudes, the phase retrieval model.
	AbsoluteValue
)

// DefaultSuccessThreshold is the relative-error bound under which a trial
// counts as a successful recovery. It is fixed across all problem
// variants.
const DefaultSuccessThreshold = 1e-2

// TrialConfig describes one experiment point. The solver and initializer
// are built per trial through the factory fields so that each trial can
// receive its own random stream and its own ground truth for diagnostics;
// the three strategies are swappable independently without touching the
// trial runner.
type TrialConfig struct {
	// Rows, Cols give the signal shape; a vector signal has Cols == 1.
	Rows, Cols int
	// Rank is the target rank for matrix signals.
	Rank int
	// Sparsity is the target support size for vector signals.
	Sparsity int
	// Measurements is the measurement count m.
	Measurements int

	Model        SensingModel
	Nonlinearity Nonlinearity

	// NewSolver builds the trial's solver; truth is passed for diagnostic
	// trajectories only and must not steer the update rule.
	NewSolver func(truth *mat.Dense, rng *rand.Rand) solver.Solver
	// NewInitializer builds the trial's initializer under the same
	// contract.
	NewInitializer func(truth *mat.Dense, rng *rand.Rand) initializer.Initializer

	// Truth, when set, is used for every trial instead of a fresh random
	// ground truth.
	Truth *mat.Dense

	// SuccessThreshold defaults to DefaultSuccessThreshold when zero.
	SuccessThreshold float64

	// Seed is the base of the per-trial random streams used by RunTrials.
	Seed uint64
}

func (cfg *TrialConfig) validate() error {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return operator.Configf("trial requires positive signal dimensions, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.Measurements <= 0 {
		return operator.Configf("trial requires a positive measurement count")
	}
	if cfg.NewSolver == nil {
		return operator.Configf("trial requires a solver factory")
	}
	if cfg.NewInitializer == nil {
		return operator.Configf("trial requires an initializer factory")
	}
	if cfg.Model == PartialFourier && cfg.Cols != 1 {
		return operator.Configf("partial Fourier sensing covers vector signals only")
	}
	return nil
}

func (cfg *TrialConfig) threshold() float64 {
	if cfg.SuccessThreshold == 0 {
		return DefaultSuccessThreshold
	}
	return cfg.SuccessThreshold
}
