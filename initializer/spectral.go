package initializer

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
	"github.com/wtree101/Compressed-Sensing-General-Platform/projection"
	"github.com/wtree101/Compressed-Sensing-General-Platform/signal"
)

// Spectral is the one-shot SVD initializer: it forms adjoint(y)/sqrt(m)
// and truncates it to the target rank. With linear Gaussian measurements
// this backprojection concentrates around the true signal, making it the
// standard seed for the linear solvers.
type Spectral struct {
	Rank int
	// Symmetric selects the eigendecomposition-based truncation for
	// signals constrained symmetric.
	Symmetric bool
}

// Initialize returns the rank-truncated backprojection of y.
func (s *Spectral) Initialize(y *mat.VecDense, op operator.Operator) (*mat.Dense, *History, error) {
	if s.Rank <= 0 {
		return nil, nil, operator.Configf("spectral initializer requires a positive target rank")
	}
	if y.Len() != op.NumMeasurements() {
		return nil, nil, operator.Configf("spectral initializer: %d measurements for an operator expecting %d",
			y.Len(), op.NumMeasurements())
	}

	back := op.Adjoint(y)
	back.Scale(1/math.Sqrt(float64(op.NumMeasurements())), back)

	var p projection.Projection
	if s.Symmetric {
		p = projection.SymmetricRank{R: s.Rank}
	} else {
		p = projection.Rank{R: s.Rank}
	}
	return p.Apply(back), nil, nil
}

// Random seeds a solver with a normalized random estimate. For square
// signals it draws a (d by r) Gaussian factor U, normalizes U U^T to unit
// Frobenius norm and scales it; for vector signals it draws a Gaussian
// vector, optionally hard-thresholded to the target sparsity.
type Random struct {
	Rng  *rand.Rand
	Rank int
	// Scale multiplies the unit-normalized estimate; zero means 1.
	Scale float64
	// Sparsity, when positive, hard-thresholds the vector-mode draw.
	Sparsity int
}

// Initialize returns the scaled random estimate.
func (s *Random) Initialize(y *mat.VecDense, op operator.Operator) (*mat.Dense, *History, error) {
	if s.Rng == nil {
		return nil, nil, operator.Configf("random initializer requires a random source")
	}
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	rows, cols := op.SignalDims()

	if cols == 1 {
		x := signal.Gaussian(s.Rng, rows, 1)
		if s.Sparsity > 0 {
			x = projection.Sparsity{S: s.Sparsity}.Apply(x)
		}
		signal.Normalize(x)
		x.Scale(scale, x)
		return x, nil, nil
	}

	if s.Rank <= 0 {
		return nil, nil, operator.Configf("random initializer requires a positive target rank for matrix signals")
	}
	if rows != cols {
		return nil, nil, operator.Configf("random factored initializer assumes a square signal, got %dx%d", rows, cols)
	}
	u := signal.Gaussian(s.Rng, rows, s.Rank)
	x := mat.NewDense(rows, rows, nil)
	x.Mul(u, u.T())
	signal.Normalize(x)
	x.Scale(scale, x)
	return x, nil, nil
}
