// Package initializer implements the strategies that seed the iterative
// solvers: spectral (one-shot SVD), random, the power method on the
// weighted measurement covariance, and the fourth-order tensor lift. Each
// consumes the measurements and the operator and produces a starting
// estimate together with optional per-iteration diagnostics.
package initializer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
)

// Initializer is the seeding strategy the trial runner selects at
// construction time, independently of the solver.
type Initializer interface {
	Initialize(y *mat.VecDense, op operator.Operator) (*mat.Dense, *History, error)
}

// History carries optional per-iteration diagnostics of an iterative
// initializer: the pre-normalization estimate norm (an eigenvalue
// estimate for the power method) and, when a ground truth was supplied,
// the rectified relative error. One-shot initializers return nil.
type History struct {
	Norms  []float64
	Errors []float64
}
