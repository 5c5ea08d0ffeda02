package tensor

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
)

// sign picks the subgradient of |z| with sign(0) = +1. The lifted solver
// starts from the zero tensor, where every prediction is zero; choosing +1
// there turns the first step into the backprojection of the targets
// instead of leaving the origin stationary. Lifted targets are
// nonnegative, so the positive branch is the meaningful one.
func sign(z float64) float64 {
	if z < 0 {
		return -1
	}
	return 1
}

// Result carries the output of the lifted solver: the final tensor and
// the per-iteration relative-error and loss trajectories. Index 0 records
// the initial tensor before any update.
type Result struct {
	T      *Dense4
	Errors []float64
	Losses []float64
}

// ProjectedAmplitude is projected gradient descent on the amplitude loss
//
//	l(T) = 1/2 sum_i (y_i - |z_i|)^2,  z = Forward(T)/sqrt(m),
//
// in the lifted fourth-order space, with a Tucker multirank-(r,r,r,r)
// projection and an explicit symmetrization of both the gradient and the
// iterate after every step. The symmetrization keeps the iterate near the
// X (x) X variety the lift encodes.
type ProjectedAmplitude struct {
	Iterations int
	Step       float64
	Rank       int
	// Truth, when set, is used only to fill the error trajectory.
	Truth *Dense4
}

// Solve runs the configured number of iterations from t0 and returns the
// final tensor with its diagnostic trajectories.
func (s *ProjectedAmplitude) Solve(t0 *Dense4, y *mat.VecDense, op *Lifted) (*Result, error) {
	if s.Iterations <= 0 {
		return nil, operator.Configf("tensor solver requires a positive iteration count")
	}
	if s.Step <= 0 {
		return nil, operator.Configf("tensor solver requires a positive step size")
	}
	if s.Rank <= 0 {
		return nil, operator.Configf("tensor solver requires a positive target rank")
	}
	if t0.Dim() != op.Dim() {
		panic("ProjectedAmplitude.Solve: tensor dimension does not match operator")
	}

	m := op.NumMeasurements()
	sqrtM := math.Sqrt(float64(m))
	res := &Result{
		T:      t0.Clone(),
		Errors: make([]float64, s.Iterations),
		Losses: make([]float64, s.Iterations),
	}

	coeff := mat.NewVecDense(m, nil)
	for iter := 0; iter < s.Iterations; iter++ {
		z := op.Forward(res.T)
		z.ScaleVec(1/sqrtM, z)

		var loss float64
		for i := 0; i < m; i++ {
			zi := z.AtVec(i)
			residual := y.AtVec(i) - math.Abs(zi)
			loss += 0.5 * residual * residual
			coeff.SetVec(i, residual*sign(zi))
		}
		res.Losses[iter] = loss
		if s.Truth != nil {
			res.Errors[iter] = res.T.RelativeError(s.Truth)
		}

		// descent direction is adjoint(coeff)/sqrt(m), symmetrized
		grad := op.Adjoint(coeff).Symmetrize()
		res.T.AddScaled(s.Step/sqrtM, grad)
		res.T = TuckerTruncate(res.T.Symmetrize(), s.Rank)
	}
	return res, nil
}
