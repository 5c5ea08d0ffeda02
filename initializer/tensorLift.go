package initializer

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/gonumExtensions"
	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
	"github.com/wtree101/Compressed-Sensing-General-Platform/projection"
	"github.com/wtree101/Compressed-Sensing-General-Platform/signal"
	"github.com/wtree101/Compressed-Sensing-General-Platform/tensor"
)

// TensorLift seeds symmetric recovery through the fourth-order lift: the
// measurement matrices are lifted to A_i (x) A_i, a few iterations of the
// symmetric-tensor projected solver are run from the zero tensor, a rank-r
// matrix is extracted from the dominant eigenpair of the result's
// symmetrized (1,2)x(3,4) matricization, and the extraction is refined by
// additional power-method iterations seeded from it.
//
// The lifted state has d^4 entries, so this path is meant for small to
// moderate dimension, d up to roughly 30. Larger problems should seed with
// PowerMethod directly.
type TensorLift struct {
	Rng  *rand.Rand
	Rank int
	// InnerIterations is the lifted solve budget; zero selects the default.
	InnerIterations int
	// InnerStep is the lifted solver step size; zero selects the default.
	InnerStep float64
	// RefineIterations is the power-method refinement budget; zero selects
	// the default.
	RefineIterations int
	// Truth, when set, is used only for diagnostic histories.
	Truth *mat.Dense
}

// Defaults for the lifted solve and its refinement stage.
const (
	DefaultLiftIterations   = 8
	DefaultLiftStep         = 0.2
	DefaultRefineIterations = 20
)

// Initialize runs the lift, extraction and refinement pipeline.
func (s *TensorLift) Initialize(y *mat.VecDense, op operator.Operator) (*mat.Dense, *History, error) {
	if s.Rank <= 0 {
		return nil, nil, operator.Configf("tensor lift requires a positive target rank")
	}
	rows, cols := op.SignalDims()
	if rows != cols {
		return nil, nil, operator.Configf("tensor lift requires a square signal, got %dx%d", rows, cols)
	}
	ensemble, ok := op.(*operator.Ensemble)
	if !ok {
		return nil, nil, operator.Configf("tensor lift requires an explicit measurement ensemble")
	}
	lifted, err := tensor.Lift(ensemble)
	if err != nil {
		return nil, nil, err
	}

	innerIterations := s.InnerIterations
	if innerIterations == 0 {
		innerIterations = DefaultLiftIterations
	}
	innerStep := s.InnerStep
	if innerStep == 0 {
		innerStep = DefaultLiftStep
	}
	refine := s.RefineIterations
	if refine == 0 {
		refine = DefaultRefineIterations
	}

	// In lifted space the magnitude measurements become linear: for
	// T = X (x) X, <A_i (x) A_i, T> = <A_i, X>^2 = m*y_i^2. The lifted
	// solver compares against Forward/sqrt(m), so its targets are
	// sqrt(m)*y^2.
	m := op.NumMeasurements()
	sqrtM := math.Sqrt(float64(m))
	targets := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		targets.SetVec(i, sqrtM*y.AtVec(i)*y.AtVec(i))
	}

	inner := &tensor.ProjectedAmplitude{
		Iterations: innerIterations,
		Step:       innerStep,
		Rank:       s.Rank,
	}
	if s.Truth != nil {
		inner.Truth = tensor.Outer(s.Truth)
	}
	liftedRes, err := inner.Solve(tensor.NewDense4(rows), targets, lifted)
	if err != nil {
		return nil, nil, err
	}

	extracted := extractMatrix(liftedRes.T, s.Rank)

	// refine the extraction with plain power iterations on the original
	// measurements
	pm := &PowerMethod{
		Rng:        s.Rng,
		Iterations: refine,
		Projection: projection.SymmetricRank{R: s.Rank},
		Start:      extracted,
		Truth:      s.Truth,
	}
	return pm.Initialize(y, op)
}

// extractMatrix recovers a rank-r matrix estimate from a lifted tensor:
// the dominant eigenvector of the symmetrized matricization is reshaped to
// signal form, re-symmetrized and projected to rank r. For an exact lift
// the matricization is vec(X) vec(X)^T and the extraction is exact up to
// sign.
func extractMatrix(t *tensor.Dense4, rank int) *mat.Dense {
	d := t.Dim()
	sym := gonumExtensions.Symmetrize(t.Matricize())
	packed := mat.NewSymDense(d*d, nil)
	for i := 0; i < d*d; i++ {
		for j := i; j < d*d; j++ {
			packed.SetSym(i, j, sym.At(i, j))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(packed, true) {
		panic("extractMatrix: eigendecomposition failed to converge")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return math.Abs(values[order[a]]) > math.Abs(values[order[b]])
	})
	x := gonumExtensions.Devectorize(vectors.ColView(order[0]), d, d)
	x = projection.SymmetricRank{R: rank}.Apply(gonumExtensions.Symmetrize(x))
	return signal.Normalize(x)
}
