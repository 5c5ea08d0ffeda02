package recovery

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
	"github.com/wtree101/Compressed-Sensing-General-Platform/signal"
)

// TrialResult is the immutable outcome of one trial: the diagnostic
// trajectories, the final estimate and its rectified relative error, the
// recovered structural complexity and the success flag. A failed trial
// (configuration error, divergence) carries whatever partial diagnostics
// were produced and Success == false.
type TrialResult struct {
	Errors []float64
	Losses []float64

	X          *mat.Dense
	FinalError float64
	// Rank and Sparsity report the numerical rank and support size of the
	// final estimate.
	Rank     int
	Sparsity int
	Success  bool
}

// RunTrial executes one full recovery pipeline for cfg with the supplied
// random source. The returned error explains a failed trial; the result
// is non-nil either way so a batch can record the failure and move on.
//
// The numerical kernels panic on non-finite iterates and shape
// violations. A trial is the recovery boundary for those: the panic is
// converted into a failed result here, so one blown-up trial cannot take
// down a batch.
func RunTrial(cfg TrialConfig, rng *rand.Rand) (result *TrialResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = &TrialResult{}
			err = fmt.Errorf("trial aborted: %v", r)
		}
	}()

	if err := cfg.validate(); err != nil {
		return &TrialResult{}, err
	}

	truth := cfg.Truth
	if truth == nil {
		truth = synthesizeTruth(cfg, rng)
	}

	op, err := newOperator(cfg, rng)
	if err != nil {
		return &TrialResult{}, err
	}

	y := measure(cfg, op, truth)

	init := cfg.NewInitializer(truth, rng)
	x0, _, err := init.Initialize(y, op)
	if err != nil {
		return &TrialResult{}, err
	}

	sol := cfg.NewSolver(truth, rng)
	res, solveErr := sol.Solve(x0, y, op)
	if res == nil {
		return &TrialResult{}, solveErr
	}

	result = &TrialResult{
		Errors: res.Errors,
		Losses: res.Losses,
		X:      res.X,
	}
	if res.X != nil {
		if cfg.Nonlinearity == AbsoluteValue {
			aligned, relErr := signal.Rectify(res.X, truth)
			result.X = aligned
			result.FinalError = relErr
		} else {
			result.FinalError = signal.RelativeError(res.X, truth)
		}
		result.Rank = numericalRank(result.X)
		result.Sparsity = supportSize(result.X)
		result.Success = solveErr == nil && result.FinalError < cfg.threshold()
	}
	return result, solveErr
}

func synthesizeTruth(cfg TrialConfig, rng *rand.Rand) *mat.Dense {
	if cfg.Cols == 1 && cfg.Sparsity > 0 {
		return signal.RandomSparseVector(rng, cfg.Rows, cfg.Sparsity)
	}
	rank := cfg.Rank
	if rank <= 0 {
		rank = 1
	}
	switch cfg.Model {
	case SymmetricGaussian, RankOneGaussian:
		return signal.RandomPSD(rng, cfg.Rows, rank)
	default:
		return signal.RandomLowRank(rng, cfg.Rows, cfg.Cols, rank)
	}
}

func newOperator(cfg TrialConfig, rng *rand.Rand) (operator.Operator, error) {
	switch cfg.Model {
	case DenseGaussian:
		return operator.NewDenseGaussian(rng, cfg.Measurements, cfg.Rows, cfg.Cols)
	case SymmetricGaussian:
		return operator.NewSymmetricGaussian(rng, cfg.Measurements, cfg.Rows, cfg.Cols)
	case RankOneGaussian:
		return operator.NewRankOneGaussian(rng, cfg.Measurements, cfg.Rows)
	case PartialFourier:
		return operator.NewPartialFourier(rng, cfg.Measurements, cfg.Rows)
	default:
		return nil, operator.Configf("unknown sensing model %d", cfg.Model)
	}
}

// measure produces y = nonlinearity(Forward(truth)/sqrt(m)).
func measure(cfg TrialConfig, op operator.Operator, truth *mat.Dense) *mat.VecDense {
	y := op.Forward(truth)
	y.ScaleVec(1/math.Sqrt(float64(op.NumMeasurements())), y)
	if cfg.Nonlinearity == AbsoluteValue {
		for i := 0; i < y.Len(); i++ {
			y.SetVec(i, math.Abs(y.AtVec(i)))
		}
	}
	return y
}

// rankTolerance and supportTolerance classify the final estimate's
// structure relative to its largest singular value or entry.
const (
	rankTolerance    = 1e-6
	supportTolerance = 1e-8
)

func numericalRank(x *mat.Dense) int {
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDNone) {
		return 0
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[0] == 0 {
		return 0
	}
	rank := 0
	for _, v := range values {
		if v > rankTolerance*values[0] {
			rank++
		}
	}
	return rank
}

func supportSize(x *mat.Dense) int {
	rows, cols := x.Dims()
	largest := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := math.Abs(x.At(i, j)); v > largest {
				largest = v
			}
		}
	}
	if largest == 0 {
		return 0
	}
	support := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.Abs(x.At(i, j)) > supportTolerance*largest {
				support++
			}
		}
	}
	return support
}
