package solver

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/initializer"
	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
	"github.com/wtree101/Compressed-Sensing-General-Platform/projection"
	"github.com/wtree101/Compressed-Sensing-General-Platform/signal"
)

func phaseRetrievalProblem(t *testing.T, rng *rand.Rand, d, m int) (*mat.Dense, operator.Operator, *mat.VecDense) {
	t.Helper()
	truth := signal.RandomPSD(rng, d, 1)
	op, err := operator.NewRankOneGaussian(rng, m, d)
	require.NoError(t, err)
	y := op.Forward(truth)
	y.ScaleVec(1/math.Sqrt(float64(m)), y)
	for i := 0; i < m; i++ {
		y.SetVec(i, math.Abs(y.AtVec(i)))
	}
	return truth, op, y
}

func TestAlternatingProjectionPhaseRetrieval(t *testing.T) {
	rng := rand.New(rand.NewPCG(179, 0))
	d, m := 10, 300
	truth, op, y := phaseRetrievalProblem(t, rng, d, m)

	init := &initializer.PowerMethod{
		Rng:        rng,
		Iterations: 30,
		Projection: projection.SymmetricRank{R: 1},
	}
	x0, _, err := init.Initialize(y, op)
	require.NoError(t, err)

	// the inner least-squares stage runs 10 steps per outer iteration, so
	// its step must sit well inside the stability region of the rank-one
	// ensemble
	s := &AlternatingProjection{
		Iterations: 50,
		InnerStep:  0.02,
		Projection: projection.SymmetricRank{R: 1},
		Truth:      truth,
	}
	res, err := s.Solve(x0, y, op)
	require.NoError(t, err)

	require.Len(t, res.Errors, 50)
	require.Less(t, signal.RectifiedError(res.X, truth), 1e-2)
	require.Less(t, res.Losses[49], res.Losses[0])
}

// The inner solver budget defaults and its diagnostics are discarded: the
// outer trajectories must have exactly the outer length.
func TestAlternatingProjectionInnerBudget(t *testing.T) {
	rng := rand.New(rand.NewPCG(181, 0))
	truth, op, y := phaseRetrievalProblem(t, rng, 8, 200)

	s := &AlternatingProjection{
		Iterations:      5,
		InnerIterations: 3,
		InnerStep:       0.02,
		Projection:      projection.SymmetricRank{R: 1},
		Truth:           truth,
	}
	x0 := signal.RandomPSD(rng, 8, 1)
	res, err := s.Solve(x0, y, op)
	require.NoError(t, err)
	require.Len(t, res.Errors, 5)
	require.Len(t, res.Losses, 5)
}

func TestAlternatingProjectionConfigErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(191, 0))
	truth, op, y := phaseRetrievalProblem(t, rng, 6, 60)
	var cfgErr *operator.ConfigurationError

	s := &AlternatingProjection{Iterations: 10, InnerStep: 0.5}
	_, err := s.Solve(truth, y, op)
	require.ErrorAs(t, err, &cfgErr)

	s = &AlternatingProjection{Iterations: 10, Projection: projection.SymmetricRank{R: 1}}
	_, err = s.Solve(truth, y, op)
	require.ErrorAs(t, err, &cfgErr)
}
