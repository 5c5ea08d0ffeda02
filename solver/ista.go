package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
)

// ISTA is the iterative soft-thresholding algorithm for sparse vector
// recovery: a gradient step on the linear least-squares loss followed by
// the proximal map of Lambda*||x||_1, i.e. soft thresholding at
// Step*Lambda. Unlike the hard-thresholding projection this shrinks the
// surviving entries, so Lambda is typically tuned near the smallest true
// nonzero magnitude.
type ISTA struct {
	Iterations int
	Step       float64
	Lambda     float64
	Truth      *mat.Dense
}

// Solve runs the configured iteration budget from x0.
func (s *ISTA) Solve(x0 *mat.Dense, y *mat.VecDense, op operator.Operator) (*Result, error) {
	if s.Iterations <= 0 {
		return nil, operator.Configf("ISTA requires a positive iteration count")
	}
	if s.Step <= 0 {
		return nil, operator.Configf("ISTA requires a positive step size")
	}
	if s.Lambda < 0 {
		return nil, operator.Configf("ISTA requires a nonnegative threshold weight")
	}

	sqrtM := math.Sqrt(float64(op.NumMeasurements()))
	x := mat.DenseCopyOf(x0)
	res := newResult(s.Iterations)
	threshold := s.Step * s.Lambda

	for iter := 0; iter < s.Iterations; iter++ {
		residual := residualVec(op, x, y)
		res.Errors[iter] = trackError(x, s.Truth, false)
		res.Losses[iter] = halfSquaredNorm(residual)

		ascent := op.Adjoint(residual)
		var next mat.Dense
		next.Scale(s.Step/sqrtM, ascent)
		next.Add(x, &next)
		x = softThreshold(&next, threshold)
	}
	res.X = x
	return res, nil
}

func softThreshold(x *mat.Dense, threshold float64) *mat.Dense {
	rows, cols := x.Dims()
	res := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := x.At(i, j)
			switch {
			case v > threshold:
				res.Set(i, j, v-threshold)
			case v < -threshold:
				res.Set(i, j, v+threshold)
			}
		}
	}
	return res
}
