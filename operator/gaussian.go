package operator

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wtree101/Compressed-Sensing-General-Platform/gonumExtensions"
)

// NewDenseGaussian builds an ensemble of m measurement matrices with
// independent standard Gaussian entries, sensing a (rows by cols) signal.
func NewDenseGaussian(rng *rand.Rand, m, rows, cols int) (*Ensemble, error) {
	if rng == nil {
		return nil, Configf("dense Gaussian sensing requires a random source")
	}
	if m <= 0 {
		return nil, Configf("measurement count must be positive, got %d", m)
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	data := make([]float64, m*rows*cols)
	for index := range data {
		data[index] = normal.Rand()
	}
	return NewEnsemble(mat.NewDense(m, rows*cols, data), rows, cols)
}

// NewSymmetricGaussian builds a Gaussian ensemble whose measurement
// matrices are symmetrized, (A + A^T)/2, before use. Required whenever the
// signal itself is constrained symmetric: the adjoint then lands in the
// symmetric subspace automatically. Requesting it for a non-square signal
// is a configuration error.
func NewSymmetricGaussian(rng *rand.Rand, m, rows, cols int) (*Ensemble, error) {
	if rows != cols {
		return nil, Configf("symmetric sensing requires a square signal, got %dx%d", rows, cols)
	}
	if rng == nil {
		return nil, Configf("symmetric Gaussian sensing requires a random source")
	}
	if m <= 0 {
		return nil, Configf("measurement count must be positive, got %d", m)
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	a := mat.NewDense(m, rows*cols, nil)
	draw := mat.NewDense(rows, cols, nil)
	for i := 0; i < m; i++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				draw.Set(r, c, normal.Rand())
			}
		}
		a.SetRow(i, gonumExtensions.Vectorize(gonumExtensions.Symmetrize(draw)).RawVector().Data)
	}
	return NewEnsemble(a, rows, cols)
}

// NewRankOneGaussian builds the phase-retrieval ensemble: each measurement
// matrix is the outer product a_i a_i^T of a standard Gaussian vector, so
// <A_i, X> = a_i^T X a_i for a (d by d) signal.
func NewRankOneGaussian(rng *rand.Rand, m, d int) (*Ensemble, error) {
	if rng == nil {
		return nil, Configf("rank-one Gaussian sensing requires a random source")
	}
	if m <= 0 {
		return nil, Configf("measurement count must be positive, got %d", m)
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	a := mat.NewDense(m, d*d, nil)
	v := mat.NewVecDense(d, nil)
	outer := mat.NewDense(d, d, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < d; j++ {
			v.SetVec(j, normal.Rand())
		}
		outer.Outer(1, v, v)
		a.SetRow(i, gonumExtensions.Vectorize(outer).RawVector().Data)
	}
	return NewEnsemble(a, d, d)
}
