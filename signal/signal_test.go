package signal

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRandomSparseVector(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	x := RandomSparseVector(rng, 50, 5)

	rows, cols := x.Dims()
	require.Equal(t, 50, rows)
	require.Equal(t, 1, cols)
	require.InDelta(t, 1.0, mat.Norm(x, 2), 1e-12)

	nonzero := 0
	for i := 0; i < rows; i++ {
		if x.At(i, 0) != 0 {
			nonzero++
		}
	}
	require.Equal(t, 5, nonzero)
}

func TestRandomPSD(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	x := RandomPSD(rng, 10, 2)

	require.InDelta(t, 1.0, mat.Norm(x, 2), 1e-12)
	var diff mat.Dense
	diff.Sub(x, x.T())
	require.InDelta(t, 0.0, mat.Norm(&diff, 2), 1e-12)

	var svd mat.SVD
	require.True(t, svd.Factorize(x, mat.SVDNone))
	values := svd.Values(nil)
	require.Less(t, values[2]/values[0], 1e-12)
}

func TestRandomLowRankRank(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	x := RandomLowRank(rng, 12, 8, 3)

	require.InDelta(t, 1.0, mat.Norm(x, 2), 1e-12)
	var svd mat.SVD
	require.True(t, svd.Factorize(x, mat.SVDNone))
	values := svd.Values(nil)
	require.Greater(t, values[2], 1e-12)
	require.Less(t, values[3]/values[0], 1e-12)
}

// Rectification must map both sign alignments of the truth to zero error
// and return the positively aligned estimate.
func TestRectifySignAmbiguity(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	truth := RandomPSD(rng, 8, 1)

	for _, c := range []float64{1, -1} {
		est := mat.DenseCopyOf(truth)
		est.Scale(c, est)

		aligned, relErr := Rectify(est, truth)
		require.InDelta(t, 0.0, relErr, 1e-12, "sign %v", c)
		require.True(t, mat.EqualApprox(aligned, truth, 1e-12), "sign %v", c)
	}
}

func TestRectifyPicksSmallerError(t *testing.T) {
	truth := mat.NewDense(2, 1, []float64{1, 0})
	est := mat.NewDense(2, 1, []float64{-0.9, 0.1})

	aligned, relErr := Rectify(est, truth)
	require.Greater(t, aligned.At(0, 0), 0.0)
	require.InDelta(t, math.Sqrt(0.1*0.1+0.1*0.1), relErr, 1e-12)
}

func TestRelativeError(t *testing.T) {
	truth := mat.NewDense(2, 1, []float64{3, 4})
	est := mat.NewDense(2, 1, []float64{3, 4})
	require.Equal(t, 0.0, RelativeError(est, truth))

	est.Set(1, 0, 0)
	require.InDelta(t, 4.0/5.0, RelativeError(est, truth), 1e-12)
}
