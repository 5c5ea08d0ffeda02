package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
	"github.com/wtree101/Compressed-Sensing-General-Platform/projection"
)

// Projected is projected gradient descent on the linear least-squares loss
//
//	l(x) = 1/2 ||Forward(x)/sqrt(m) - y||^2 + Reg/2 ||x||^2,
//
// with the structural constraint enforced by the plugged-in projection
// after every step. The projection is required; running without one is a
// configuration error, not a silent unconstrained descent.
type Projected struct {
	Iterations int
	Step       float64
	Reg        float64
	Projection projection.Projection
	// Truth, when set, is used only for the error trajectory; Rectify
	// selects the sign-rectified error of magnitude measurement models.
	Truth   *mat.Dense
	Rectify bool
}

// Solve runs the configured iteration budget from x0.
func (s *Projected) Solve(x0 *mat.Dense, y *mat.VecDense, op operator.Operator) (*Result, error) {
	if s.Iterations <= 0 {
		return nil, operator.Configf("projected solver requires a positive iteration count")
	}
	if s.Step <= 0 {
		return nil, operator.Configf("projected solver requires a positive step size")
	}
	if s.Projection == nil {
		return nil, operator.Configf("projected solver requires a projection")
	}

	sqrtM := math.Sqrt(float64(op.NumMeasurements()))
	x := mat.DenseCopyOf(x0)
	res := newResult(s.Iterations)

	for iter := 0; iter < s.Iterations; iter++ {
		residual := residualVec(op, x, y) // y - Forward(x)/sqrt(m)
		res.Errors[iter] = trackError(x, s.Truth, s.Rectify)
		res.Losses[iter] = halfSquaredNorm(residual)

		// gradient = -adjoint(residual)/sqrt(m) + Reg*x
		grad := op.Adjoint(residual)
		grad.Scale(-1/sqrtM, grad)
		var ridge mat.Dense
		ridge.Scale(s.Reg, x)
		grad.Add(grad, &ridge)

		var next mat.Dense
		next.Scale(-s.Step, grad)
		next.Add(x, &next)
		x = s.Projection.Apply(&next)
	}
	res.X = x
	return res, nil
}

// ProjectedAmplitude is projected gradient descent on the magnitude-only
// (phase retrieval) loss
//
//	l(x) = 1/2 sum_i (y_i - |z_i|)^2,  z = Forward(x)/sqrt(m).
//
// The loss is non-smooth at z_i = 0; sign(z_i) is taken as zero inside a
// small guard band there, which is the documented subgradient choice.
// Error trajectories are always sign-rectified, since the measurements
// cannot tell x from -x.
type ProjectedAmplitude struct {
	Iterations int
	Step       float64
	Projection projection.Projection
	Truth      *mat.Dense
}

// Solve runs the configured iteration budget from x0.
func (s *ProjectedAmplitude) Solve(x0 *mat.Dense, y *mat.VecDense, op operator.Operator) (*Result, error) {
	if s.Iterations <= 0 {
		return nil, operator.Configf("amplitude solver requires a positive iteration count")
	}
	if s.Step <= 0 {
		return nil, operator.Configf("amplitude solver requires a positive step size")
	}
	if s.Projection == nil {
		return nil, operator.Configf("amplitude solver requires a projection")
	}

	m := op.NumMeasurements()
	sqrtM := math.Sqrt(float64(m))
	x := mat.DenseCopyOf(x0)
	res := newResult(s.Iterations)
	coeff := mat.NewVecDense(m, nil)

	for iter := 0; iter < s.Iterations; iter++ {
		z := scaledForward(op, x)
		var loss float64
		for i := 0; i < m; i++ {
			zi := z.AtVec(i)
			residual := y.AtVec(i) - math.Abs(zi)
			loss += 0.5 * residual * residual
			coeff.SetVec(i, residual*sign(zi))
		}
		res.Errors[iter] = trackError(x, s.Truth, true)
		res.Losses[iter] = loss

		// gradient = -adjoint(coeff)/sqrt(m)
		ascent := op.Adjoint(coeff)
		var next mat.Dense
		next.Scale(s.Step/sqrtM, ascent)
		next.Add(x, &next)
		x = s.Projection.Apply(&next)
	}
	res.X = x
	return res, nil
}
