package operator

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/gonumExtensions"
)

func randomSignal(rng *rand.Rand, rows, cols int) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return mat.NewDense(rows, cols, data)
}

// Adjointness, <Forward(x), y> == <x, Adjoint(y)>, must hold to machine
// precision for every sensing variant; every solver gradient depends on
// it.
func TestAdjointness(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 0))

	dense, err := NewDenseGaussian(rng, 30, 6, 4)
	require.NoError(t, err)
	symmetric, err := NewSymmetricGaussian(rng, 25, 5, 5)
	require.NoError(t, err)
	rankOne, err := NewRankOneGaussian(rng, 40, 7)
	require.NoError(t, err)
	fourier, err := NewPartialFourier(rng, 20, 16)
	require.NoError(t, err)

	cases := []struct {
		name string
		op   Operator
	}{
		{"dense", dense},
		{"symmetric", symmetric},
		{"rankOne", rankOne},
		{"fourier", fourier},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, cols := tc.op.SignalDims()
			m := tc.op.NumMeasurements()
			x := randomSignal(rng, rows, cols)
			w := mat.NewVecDense(m, nil)
			for i := 0; i < m; i++ {
				w.SetVec(i, rng.NormFloat64())
			}

			forward := mat.Dot(tc.op.Forward(x), w)
			adjoint := gonumExtensions.Dot(x, tc.op.Adjoint(w))
			require.InDelta(t, forward, adjoint, 1e-9*(1+absf(forward)))
		})
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestSymmetricGaussianRowsAreSymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 0))
	op, err := NewSymmetricGaussian(rng, 10, 6, 6)
	require.NoError(t, err)

	for i := 0; i < op.NumMeasurements(); i++ {
		a := op.Row(i)
		require.True(t, mat.EqualApprox(a, a.T(), 1e-15), "row %d", i)
	}
}

func TestRankOneGaussianRowsAreRankOne(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 0))
	op, err := NewRankOneGaussian(rng, 5, 6)
	require.NoError(t, err)

	for i := 0; i < op.NumMeasurements(); i++ {
		var svd mat.SVD
		require.True(t, svd.Factorize(op.Row(i), mat.SVDNone))
		values := svd.Values(nil)
		require.Less(t, values[1]/values[0], 1e-12, "row %d", i)
	}
}

func TestSymmetricGaussianRejectsRectangular(t *testing.T) {
	rng := rand.New(rand.NewPCG(19, 0))
	_, err := NewSymmetricGaussian(rng, 10, 5, 6)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestConstructorsRequireRandomSource(t *testing.T) {
	var cfgErr *ConfigurationError
	_, err := NewDenseGaussian(nil, 10, 4, 4)
	require.ErrorAs(t, err, &cfgErr)
	_, err = NewRankOneGaussian(nil, 10, 4)
	require.ErrorAs(t, err, &cfgErr)
}

func TestForwardShapeMismatchPanics(t *testing.T) {
	rng := rand.New(rand.NewPCG(23, 0))
	op, err := NewDenseGaussian(rng, 10, 4, 4)
	require.NoError(t, err)

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)
		var dimErr *DimensionMismatch
		require.True(t, errors.As(recovered.(error), &dimErr))
	}()
	op.Forward(mat.NewDense(3, 4, nil))
}

func TestAdjointReturnsSignalShape(t *testing.T) {
	rng := rand.New(rand.NewPCG(29, 0))
	op, err := NewDenseGaussian(rng, 12, 5, 3)
	require.NoError(t, err)

	back := op.Adjoint(mat.NewVecDense(12, nil))
	rows, cols := back.Dims()
	require.Equal(t, 5, rows)
	require.Equal(t, 3, cols)
}

func BenchmarkForward(b *testing.B) {
	rng := rand.New(rand.NewPCG(31, 0))
	op, err := NewRankOneGaussian(rng, 400, 20)
	if err != nil {
		b.Fatal(err)
	}
	x := randomSignal(rng, 20, 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		op.Forward(x)
	}
}

func BenchmarkAdjoint(b *testing.B) {
	rng := rand.New(rand.NewPCG(37, 0))
	op, err := NewRankOneGaussian(rng, 400, 20)
	if err != nil {
		b.Fatal(err)
	}
	w := mat.NewVecDense(400, nil)
	for i := 0; i < 400; i++ {
		w.SetVec(i, rng.NormFloat64())
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		op.Adjoint(w)
	}
}
