package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
	"github.com/wtree101/Compressed-Sensing-General-Platform/projection"
)

// AlternatingProjection solves magnitude-only recovery by alternating two
// projections. Each outer iteration first projects the current measurement
// prediction onto the magnitude constraint, replacing |z| with the
// observed y while keeping sign(z); it then projects back to signal space
// by running a short inner linear least-squares solve against the
// corrected measurements, followed by the configured structural
// projection.
//
// The inner stage is a full Projected solver owned by this one, invoked
// with its own reduced iteration budget. Its ground truth is substituted
// with the current outer iterate purely to satisfy the diagnostic
// contract; the inner trajectories are discarded and only the inner final
// point is kept.
type AlternatingProjection struct {
	Iterations int
	// InnerIterations is the inner solve budget; zero selects the default.
	InnerIterations int
	InnerStep       float64
	Projection      projection.Projection
	Truth           *mat.Dense
}

// DefaultInnerIterations is used when InnerIterations is zero.
const DefaultInnerIterations = 10

// Solve runs the configured iteration budget from x0.
func (s *AlternatingProjection) Solve(x0 *mat.Dense, y *mat.VecDense, op operator.Operator) (*Result, error) {
	if s.Iterations <= 0 {
		return nil, operator.Configf("alternating projection requires a positive iteration count")
	}
	if s.InnerStep <= 0 {
		return nil, operator.Configf("alternating projection requires a positive inner step size")
	}
	if s.Projection == nil {
		return nil, operator.Configf("alternating projection requires a projection")
	}
	innerIterations := s.InnerIterations
	if innerIterations == 0 {
		innerIterations = DefaultInnerIterations
	}

	// the inner solver runs unconstrained; the structural projection is
	// applied once per outer iteration, after the inner solve
	inner := &Projected{
		Iterations: innerIterations,
		Step:       s.InnerStep,
		Projection: projection.Identity{},
	}

	m := op.NumMeasurements()
	x := mat.DenseCopyOf(x0)
	res := newResult(s.Iterations)
	corrected := mat.NewVecDense(m, nil)

	for iter := 0; iter < s.Iterations; iter++ {
		z := scaledForward(op, x)
		var loss float64
		for i := 0; i < m; i++ {
			zi := z.AtVec(i)
			residual := y.AtVec(i) - math.Abs(zi)
			loss += 0.5 * residual * residual
			corrected.SetVec(i, y.AtVec(i)*sign(zi))
		}
		res.Errors[iter] = trackError(x, s.Truth, true)
		res.Losses[iter] = loss

		inner.Truth = x
		innerRes, err := inner.Solve(x, corrected, op)
		if err != nil {
			return nil, err
		}
		x = s.Projection.Apply(innerRes.X)
	}
	res.X = x
	return res, nil
}
