package operator

import (
	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/gonumExtensions"
)

// Ensemble is the concrete operator used by every sensing model in this
// package. It stores the m measurement matrices A_1..A_m as the rows of a
// (m by rows*cols) matrix; the i-th measurement is the Frobenius inner
// product <A_i, X>. Because both maps are realized by the same stored
// matrix, adjointness holds by construction.
type Ensemble struct {
	a          *mat.Dense
	rows, cols int
}

// NewEnsemble wraps an explicit (m by rows*cols) sensing matrix. The rows
// are the vectorized measurement matrices, in the row-major ordering of
// gonumExtensions.Vectorize.
func NewEnsemble(a *mat.Dense, rows, cols int) (*Ensemble, error) {
	if rows <= 0 || cols <= 0 {
		return nil, Configf("signal dimensions must be positive, got %dx%d", rows, cols)
	}
	m, n := a.Dims()
	if m <= 0 {
		return nil, Configf("measurement count must be positive, got %d", m)
	}
	if n != rows*cols {
		return nil, &DimensionMismatch{
			Context:  "NewEnsemble",
			WantRows: m, WantCols: rows * cols,
			GotRows: m, GotCols: n,
		}
	}
	return &Ensemble{a: a, rows: rows, cols: cols}, nil
}

// Forward computes y_i = <A_i, x> for every measurement matrix.
func (e *Ensemble) Forward(x *mat.Dense) *mat.VecDense {
	r, c := x.Dims()
	checkShape("Ensemble.Forward", r, c, e.rows, e.cols)
	m, _ := e.a.Dims()
	res := mat.NewVecDense(m, nil)
	res.MulVec(e.a, gonumExtensions.Vectorize(x))
	return res
}

// Adjoint computes sum_i y_i A_i, reshaped to the signal dimensions.
func (e *Ensemble) Adjoint(y *mat.VecDense) *mat.Dense {
	m, _ := e.a.Dims()
	checkShape("Ensemble.Adjoint", y.Len(), 1, m, 1)
	res := mat.NewVecDense(e.rows*e.cols, nil)
	res.MulVec(e.a.T(), y)
	return gonumExtensions.Devectorize(res, e.rows, e.cols)
}

// SignalDims reports the signal shape the ensemble senses.
func (e *Ensemble) SignalDims() (rows, cols int) { return e.rows, e.cols }

// NumMeasurements reports the number of stored measurement matrices.
func (e *Ensemble) NumMeasurements() int {
	m, _ := e.a.Dims()
	return m
}

// Row reconstructs the i-th measurement matrix A_i in signal shape.
func (e *Ensemble) Row(i int) *mat.Dense {
	return gonumExtensions.Devectorize(e.a.RowView(i), e.rows, e.cols)
}

// Matrix exposes the raw (m by rows*cols) sensing matrix. Callers must
// treat it as read-only; the ensemble itself is immutable after
// construction.
func (e *Ensemble) Matrix() *mat.Dense { return e.a }
