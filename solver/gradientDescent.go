package solver

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
)

// GradientDescent is factored gradient descent for symmetric low-rank
// recovery under linear measurements. The iterate is kept implicitly as a
// (d by r) factor U with X = U U^T; each step applies
//
//	U <- U + Step*(adjoint(y - Forward(UU^T)/sqrt(m))/sqrt(m) * U - Reg*U).
//
// Reg is an optional ridge-like weight on the factor.
type GradientDescent struct {
	Iterations int
	Step       float64
	Rank       int
	Reg        float64
	// Truth, when set, is used only for the error trajectory.
	Truth *mat.Dense
}

// Solve runs the configured iteration budget from x0.
func (s *GradientDescent) Solve(x0 *mat.Dense, y *mat.VecDense, op operator.Operator) (*Result, error) {
	if err := checkFactoredConfig(s.Iterations, s.Step, s.Rank, op); err != nil {
		return nil, err
	}
	u := factorFromEstimate(x0, s.Rank)
	res := newResult(s.Iterations)

	for iter := 0; iter < s.Iterations; iter++ {
		x := reconstruct(u)
		residual := residualVec(op, x, y)
		res.Errors[iter] = trackError(x, s.Truth, false)
		res.Losses[iter] = halfSquaredNorm(residual)

		u = factorStep(op, u, residual, s.Step, s.Reg)
	}
	res.X = reconstruct(u)
	return res, nil
}

// Subgradient is the same factored update as GradientDescent driven by a
// geometrically decaying step, Step*Decay^t, the usual schedule for the
// sharp losses subgradient methods face. Decay of zero selects the
// default.
type Subgradient struct {
	Iterations int
	Step       float64
	// Decay is the per-iteration multiplicative step factor in (0, 1].
	Decay float64
	Rank  int
	Reg   float64
	Truth *mat.Dense
}

// DefaultSubgradientDecay is used when Subgradient.Decay is zero.
const DefaultSubgradientDecay = 0.995

// Solve runs the configured iteration budget from x0.
func (s *Subgradient) Solve(x0 *mat.Dense, y *mat.VecDense, op operator.Operator) (*Result, error) {
	if err := checkFactoredConfig(s.Iterations, s.Step, s.Rank, op); err != nil {
		return nil, err
	}
	decay := s.Decay
	if decay == 0 {
		decay = DefaultSubgradientDecay
	}
	if decay < 0 || decay > 1 {
		return nil, operator.Configf("subgradient decay must lie in (0, 1], got %v", decay)
	}

	u := factorFromEstimate(x0, s.Rank)
	res := newResult(s.Iterations)
	step := s.Step

	for iter := 0; iter < s.Iterations; iter++ {
		x := reconstruct(u)
		residual := residualVec(op, x, y)
		res.Errors[iter] = trackError(x, s.Truth, false)
		res.Losses[iter] = halfSquaredNorm(residual)

		u = factorStep(op, u, residual, step, s.Reg)
		step *= decay
	}
	res.X = reconstruct(u)
	return res, nil
}

// Stochastic is stochastic factored gradient descent: each iteration
// samples one measurement index uniformly and applies the single-term
// gradient, scaled like the full update. The loss trajectory still records
// the full objective so trials remain comparable.
type Stochastic struct {
	Iterations int
	Step       float64
	Rank       int
	Reg        float64
	Rng        *rand.Rand
	Truth      *mat.Dense
}

// Solve runs the configured iteration budget from x0.
func (s *Stochastic) Solve(x0 *mat.Dense, y *mat.VecDense, op operator.Operator) (*Result, error) {
	if err := checkFactoredConfig(s.Iterations, s.Step, s.Rank, op); err != nil {
		return nil, err
	}
	if s.Rng == nil {
		return nil, operator.Configf("stochastic solver requires a random source")
	}

	m := op.NumMeasurements()
	u := factorFromEstimate(x0, s.Rank)
	res := newResult(s.Iterations)
	picked := mat.NewVecDense(m, nil)

	for iter := 0; iter < s.Iterations; iter++ {
		x := reconstruct(u)
		residual := residualVec(op, x, y)
		res.Errors[iter] = trackError(x, s.Truth, false)
		res.Losses[iter] = halfSquaredNorm(residual)

		// keep only the sampled measurement's contribution
		picked.Zero()
		index := s.Rng.IntN(m)
		picked.SetVec(index, residual.AtVec(index))
		u = factorStep(op, u, picked, s.Step, s.Reg)
	}
	res.X = reconstruct(u)
	return res, nil
}

func checkFactoredConfig(iterations int, step float64, rank int, op operator.Operator) error {
	if iterations <= 0 {
		return operator.Configf("factored solver requires a positive iteration count")
	}
	if step <= 0 {
		return operator.Configf("factored solver requires a positive step size")
	}
	if rank <= 0 {
		return operator.Configf("factored solver requires a positive target rank")
	}
	rows, cols := op.SignalDims()
	if rows != cols {
		return operator.Configf("factored solvers assume a square symmetric signal, got %dx%d", rows, cols)
	}
	return nil
}

func newResult(iterations int) *Result {
	return &Result{
		Errors: make([]float64, iterations),
		Losses: make([]float64, iterations),
	}
}

func reconstruct(u *mat.Dense) *mat.Dense {
	d, _ := u.Dims()
	x := mat.NewDense(d, d, nil)
	x.Mul(u, u.T())
	return x
}

// residualVec returns y - Forward(x)/sqrt(m).
func residualVec(op operator.Operator, x *mat.Dense, y *mat.VecDense) *mat.VecDense {
	z := scaledForward(op, x)
	res := mat.NewVecDense(y.Len(), nil)
	res.SubVec(y, z)
	return res
}

// factorStep applies U <- U + step*(adjoint(residual)/sqrt(m)*U - reg*U).
func factorStep(op operator.Operator, u *mat.Dense, residual *mat.VecDense, step, reg float64) *mat.Dense {
	grad := op.Adjoint(residual)
	grad.Scale(1/math.Sqrt(float64(op.NumMeasurements())), grad)

	d, r := u.Dims()
	var direction mat.Dense
	direction.Mul(grad, u)

	next := mat.NewDense(d, r, nil)
	next.Scale(-step*reg, u)
	next.Add(next, u)
	var scaled mat.Dense
	scaled.Scale(step, &direction)
	next.Add(next, &scaled)
	return next
}

func halfSquaredNorm(v *mat.VecDense) float64 {
	dot := mat.Dot(v, v)
	return 0.5 * dot
}
