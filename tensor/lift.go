package tensor

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/operator"
)

// Lifted is the fourth-order measurement operator obtained by lifting
// each measurement matrix A_i of a base ensemble to A_i (x) A_i. Acting on
// the (1,2)x(3,4) matricization M of a tensor T, the i-th measurement is
//
//	<A_i (x) A_i, T> = vec(A_i)^T M vec(A_i),
//
// so the lift is a rank-one ensemble in d^2-dimensional space over the
// already-vectorized rows of the base ensemble.
type Lifted struct {
	u *mat.Dense // m by d^2, row i = vec(A_i)
	d int
	m int
}

// Lift builds the fourth-order operator from a base ensemble sensing a
// square (d by d) signal.
func Lift(e *operator.Ensemble) (*Lifted, error) {
	rows, cols := e.SignalDims()
	if rows != cols {
		return nil, operator.Configf("tensor lift requires a square signal, got %dx%d", rows, cols)
	}
	return &Lifted{u: e.Matrix(), d: rows, m: e.NumMeasurements()}, nil
}

// Dim reports the base signal dimension d (the tensor has d^4 entries).
func (l *Lifted) Dim() int { return l.d }

// NumMeasurements reports the measurement count of the base ensemble.
func (l *Lifted) NumMeasurements() int { return l.m }

// Forward computes y_i = vec(A_i)^T Mat(T) vec(A_i) for all measurements.
func (l *Lifted) Forward(t *Dense4) *mat.VecDense {
	if t.Dim() != l.d {
		panic("Lifted.Forward: tensor dimension does not match operator")
	}
	var p mat.Dense
	p.Mul(l.u, t.Matricize())
	res := mat.NewVecDense(l.m, nil)
	for i := 0; i < l.m; i++ {
		res.SetVec(i, floats.Dot(p.RawRowView(i), l.u.RawRowView(i)))
	}
	return res
}

// Adjoint computes sum_i w_i A_i (x) A_i, whose matricization is
// U^T diag(w) U over the stored rows.
func (l *Lifted) Adjoint(w *mat.VecDense) *Dense4 {
	if w.Len() != l.m {
		panic("Lifted.Adjoint: weight length does not match measurement count")
	}
	scaled := mat.DenseCopyOf(l.u)
	for i := 0; i < l.m; i++ {
		row := scaled.RawRowView(i)
		floats.Scale(w.AtVec(i), row)
	}
	var res mat.Dense
	res.Mul(l.u.T(), scaled)
	return FromMatricized(&res, l.d)
}
