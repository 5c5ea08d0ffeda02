// Package solver implements the iterative recovery solvers. Every solver
// consumes an initial estimate, a measurement vector and a measurement
// operator, runs a fixed iteration budget and reports the final estimate
// together with per-iteration relative-error and loss trajectories. The
// fixed budget keeps trajectories comparable across trials; only the
// Riemannian solver is allowed to stop early, on divergence.
//
// Measurements are consistently scaled: a solver sees y built as
// nonlinearity(Forward(truth)/sqrt(m)) and internally compares against
// Forward(x)/sqrt(m).
package solver

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
	"github.com/wtree101/Compressed-Sensing-General-Platform/signal"
)

// Solver is the strategy interface the trial runner selects at
// construction time. Implementations are configured through their struct
// fields and validate them on entry to Solve.
type Solver interface {
	Solve(x0 *mat.Dense, y *mat.VecDense, op operator.Operator) (*Result, error)
}

// Result is a solver's output. Errors and Losses have one entry per
// iteration; index 0 records the initial estimate's diagnostics before any
// update. When a solver aborts early the trajectories are truncated to the
// iterations actually run.
type Result struct {
	X      *mat.Dense
	Errors []float64
	Losses []float64
}

// signGuard is the smallest |z| treated as nonzero when forming sign(z).
// The amplitude loss is not differentiable at z = 0; zeroing the
// subgradient there is the documented choice, not an accident.
const signGuard = 1e-10

func sign(z float64) float64 {
	if math.Abs(z) <= signGuard {
		return 0
	}
	if z < 0 {
		return -1
	}
	return 1
}

// scaledForward returns Forward(x)/sqrt(m).
func scaledForward(op operator.Operator, x *mat.Dense) *mat.VecDense {
	z := op.Forward(x)
	z.ScaleVec(1/math.Sqrt(float64(op.NumMeasurements())), z)
	return z
}

// trackError fills one entry of an error trajectory. With no ground truth
// the entry stays zero; with rectify set the sign-ambiguous error of
// magnitude models is reported.
func trackError(x, truth *mat.Dense, rectify bool) float64 {
	if truth == nil {
		return 0
	}
	if rectify {
		return signal.RectifiedError(x, truth)
	}
	return signal.RelativeError(x, truth)
}

// factorFromEstimate extracts a (d by r) factor U with x ~ U U^T from a
// symmetric estimate, via the r most positive eigenpairs. Non-positive
// directions contribute nothing; the factored solvers only represent PSD
// iterates.
func factorFromEstimate(x *mat.Dense, r int) *mat.Dense {
	d, _ := x.Dims()
	sym := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			sym.SetSym(i, j, 0.5*(x.At(i, j)+x.At(j, i)))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		panic("factorFromEstimate: eigendecomposition failed to converge")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	u := mat.NewDense(d, r, nil)
	for k := 0; k < r && k < d; k++ {
		idx := order[k]
		if values[idx] <= 0 {
			break
		}
		scale := math.Sqrt(values[idx])
		for i := 0; i < d; i++ {
			u.Set(i, k, scale*vectors.At(i, idx))
		}
	}
	return u
}
