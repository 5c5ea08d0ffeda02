package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/gonumExtensions"
	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
)

// Riemannian is gradient descent on the manifold of rank-r matrices. The
// iterate is kept as an explicit thin SVD (U, S, V); each step projects
// the ambient gradient onto the tangent space at the current point,
//
//	P(G) = U U^T G + G V V^T - U U^T G V V^T,
//
// takes the step in ambient space and retracts back to the manifold by a
// rank-r truncated SVD.
//
// Unlike the other solvers, Riemannian aborts when the iterate norm
// exceeds DivergenceFactor times the initial scale and reports
// ErrDiverged with the partial trajectories. The retraction is sensitive
// to an oversized step in a way the plain factored updates are not, so
// letting the trajectory blow up for the remaining budget carries no
// information.
type Riemannian struct {
	Iterations int
	Step       float64
	Rank       int
	// DivergenceFactor bounds the iterate norm relative to the initial
	// scale; zero selects the default of 1e3.
	DivergenceFactor float64
	Truth            *mat.Dense
}

// DefaultDivergenceFactor is used when Riemannian.DivergenceFactor is zero.
const DefaultDivergenceFactor = 1e3

// Solve runs the configured iteration budget from x0, stopping early only
// on divergence.
func (s *Riemannian) Solve(x0 *mat.Dense, y *mat.VecDense, op operator.Operator) (*Result, error) {
	if s.Iterations <= 0 {
		return nil, operator.Configf("Riemannian solver requires a positive iteration count")
	}
	if s.Step <= 0 {
		return nil, operator.Configf("Riemannian solver requires a positive step size")
	}
	if s.Rank <= 0 {
		return nil, operator.Configf("Riemannian solver requires a positive target rank")
	}
	guard := s.DivergenceFactor
	if guard == 0 {
		guard = DefaultDivergenceFactor
	}

	sqrtM := math.Sqrt(float64(op.NumMeasurements()))
	bound := guard * math.Max(mat.Norm(x0, 2), 1)

	u, sv, v := truncatedSVD(x0, s.Rank)
	res := newResult(s.Iterations)

	for iter := 0; iter < s.Iterations; iter++ {
		x := assemble(u, sv, v)
		if mat.Norm(x, 2) > bound || gonumExtensions.NANORINF(x) {
			res.X = x
			res.Errors = res.Errors[:iter]
			res.Losses = res.Losses[:iter]
			return res, ErrDiverged
		}

		residual := residualVec(op, x, y)
		res.Errors[iter] = trackError(x, s.Truth, false)
		res.Losses[iter] = halfSquaredNorm(residual)

		// ambient gradient of the least-squares loss
		grad := op.Adjoint(residual)
		grad.Scale(-1/sqrtM, grad)

		tangent := projectTangent(grad, u, v)
		var next mat.Dense
		next.Scale(-s.Step, tangent)
		next.Add(x, &next)

		u, sv, v = truncatedSVD(&next, s.Rank)
	}
	res.X = assemble(u, sv, v)
	return res, nil
}

// projectTangent projects the ambient matrix g onto the tangent space of
// the rank-r manifold at the point with left/right singular spaces U, V.
func projectTangent(g, u, v *mat.Dense) *mat.Dense {
	var uut, vvt, left, right, both mat.Dense
	uut.Mul(u, u.T())
	vvt.Mul(v, v.T())
	left.Mul(&uut, g)
	right.Mul(g, &vvt)
	both.Mul(&left, &vvt)

	res := mat.DenseCopyOf(&left)
	res.Add(res, &right)
	res.Sub(res, &both)
	return res
}

// truncatedSVD returns the rank-r thin factors of x.
func truncatedSVD(x *mat.Dense, r int) (u *mat.Dense, values []float64, v *mat.Dense) {
	rows, cols := x.Dims()
	if r > rows {
		r = rows
	}
	if r > cols {
		r = cols
	}
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		panic("truncatedSVD: SVD failed to converge")
	}
	var fullU, fullV mat.Dense
	svd.UTo(&fullU)
	svd.VTo(&fullV)
	all := svd.Values(nil)

	u = mat.DenseCopyOf(fullU.Slice(0, rows, 0, r))
	v = mat.DenseCopyOf(fullV.Slice(0, cols, 0, r))
	values = all[:r]
	return u, values, v
}

// assemble reconstructs U diag(values) V^T.
func assemble(u *mat.Dense, values []float64, v *mat.Dense) *mat.Dense {
	rows, r := u.Dims()
	cols, _ := v.Dims()
	scaled := mat.NewDense(rows, r, nil)
	for k := 0; k < r; k++ {
		for i := 0; i < rows; i++ {
			scaled.Set(i, k, u.At(i, k)*values[k])
		}
	}
	res := mat.NewDense(rows, cols, nil)
	res.Mul(scaled, v.T())
	return res
}
