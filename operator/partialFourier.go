package operator

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// NewPartialFourier builds a real partial-Fourier ensemble for a length-d
// vector signal: each of the m measurements is a randomly selected row of
// the real DFT basis, a cosine or sine at a uniformly drawn frequency,
//
//	a_k[n] = sqrt(2/d) * cos(2*pi*f*n/d)   or   sqrt(2/d) * sin(...).
//
// The rows are materialized explicitly, so the adjoint is the plain
// transpose like every other ensemble.
func NewPartialFourier(rng *rand.Rand, m, d int) (*Ensemble, error) {
	if rng == nil {
		return nil, Configf("partial Fourier sensing requires a random source")
	}
	if d <= 0 {
		return nil, Configf("signal length must be positive, got %d", d)
	}
	if m <= 0 {
		return nil, Configf("measurement count must be positive, got %d", m)
	}
	scale := math.Sqrt(2 / float64(d))
	a := mat.NewDense(m, d, nil)
	row := make([]float64, d)
	for i := 0; i < m; i++ {
		freq := float64(rng.IntN(d))
		sine := rng.IntN(2) == 1
		if freq == 0 {
			// sin at frequency zero is the zero row
			sine = false
		}
		for n := 0; n < d; n++ {
			phase := 2 * math.Pi * freq * float64(n) / float64(d)
			if sine {
				row[n] = scale * math.Sin(phase)
			} else {
				row[n] = scale * math.Cos(phase)
			}
		}
		a.SetRow(i, row)
	}
	return NewEnsemble(a, d, 1)
}
