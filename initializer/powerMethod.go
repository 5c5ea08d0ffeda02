package initializer

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
	"github.com/wtree101/Compressed-Sensing-General-Platform/projection"
	"github.com/wtree101/Compressed-Sensing-General-Platform/signal"
)

// PowerMethod iterates the weighted measurement covariance
//
//	Y(x) = 1/m sum_i f(y_i) <A_i, x> A_i
//
// to its principal direction, realized purely through forward/adjoint
// composition. For magnitude measurements with f(y) = y^2 the expectation
// of Y concentrates around the true signal direction once m is large
// enough, which makes this the preferred seed for phase retrieval.
//
// After each application the estimate is optionally re-projected onto the
// structural constraint and renormalized to unit Frobenius norm. The
// pre-normalization norm (an estimate of the leading eigenvalue) is
// tracked per iteration, as is the rectified error when a ground truth is
// supplied.
type PowerMethod struct {
	Rng *rand.Rand
	// Iterations defaults to DefaultPowerIterations when zero.
	Iterations int
	// Preprocess weights each measurement; nil selects the square.
	Preprocess func(float64) float64
	// Projection, when set, is applied after every covariance application.
	Projection projection.Projection
	// Start, when set, seeds the iteration instead of a random draw.
	Start *mat.Dense
	// Truth, when set, is used only for the error history.
	Truth *mat.Dense
}

// DefaultPowerIterations is used when PowerMethod.Iterations is zero.
const DefaultPowerIterations = 30

// Initialize runs the power iteration and returns the unit-norm principal
// direction estimate.
func (s *PowerMethod) Initialize(y *mat.VecDense, op operator.Operator) (*mat.Dense, *History, error) {
	iterations := s.Iterations
	if iterations == 0 {
		iterations = DefaultPowerIterations
	}
	if iterations < 0 {
		return nil, nil, operator.Configf("power method requires a nonnegative iteration count")
	}
	if s.Start == nil && s.Rng == nil {
		return nil, nil, operator.Configf("power method requires a random source or an explicit start")
	}

	m := op.NumMeasurements()
	if y.Len() != m {
		return nil, nil, operator.Configf("power method: %d measurements for an operator expecting %d", y.Len(), m)
	}
	preprocess := s.Preprocess
	if preprocess == nil {
		preprocess = func(v float64) float64 { return v * v }
	}
	weights := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		weights.SetVec(i, preprocess(y.AtVec(i)))
	}

	rows, cols := op.SignalDims()
	var x *mat.Dense
	if s.Start != nil {
		x = mat.DenseCopyOf(s.Start)
	} else {
		x = signal.Gaussian(s.Rng, rows, cols)
	}
	signal.Normalize(x)

	history := &History{
		Norms:  make([]float64, iterations),
		Errors: make([]float64, iterations),
	}
	applied := mat.NewVecDense(m, nil)
	for iter := 0; iter < iterations; iter++ {
		z := op.Forward(x)
		for i := 0; i < m; i++ {
			applied.SetVec(i, weights.AtVec(i)*z.AtVec(i))
		}
		x = op.Adjoint(applied)
		x.Scale(1/float64(m), x)
		if s.Projection != nil {
			x = s.Projection.Apply(x)
		}

		history.Norms[iter] = mat.Norm(x, 2)
		signal.Normalize(x)
		if s.Truth != nil {
			history.Errors[iter] = signal.RectifiedError(x, s.Truth)
		}
	}
	return x, history, nil
}
