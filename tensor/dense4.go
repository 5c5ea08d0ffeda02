// Package tensor implements the fourth-order tensor lift used by the
// symmetric initialization path: a symmetric rank-r matrix problem in X is
// reformulated as recovery of the 4-index tensor T = X (x) X. The package
// provides the tensor container, the lifted measurement operator, Tucker
// rank truncation and the projected amplitude-loss solver operating in the
// lifted space. Cost grows as d^4, so this path is intended for small to
// moderate ambient dimension (d up to roughly 30).
package tensor

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Dense4 is a real 4-index tensor with all four modes of equal dimension
// d, stored flat in row-major order: element (i,j,k,l) lives at
// ((i*d+j)*d+k)*d+l. The (1,2)x(3,4) matricization is therefore a plain
// (d^2 by d^2) row-major matrix over the same backing slice.
type Dense4 struct {
	d    int
	data []float64
}

// NewDense4 allocates a zero tensor with all modes of dimension d.
func NewDense4(d int) *Dense4 {
	return &Dense4{d: d, data: make([]float64, d*d*d*d)}
}

// Dim reports the common mode dimension d.
func (t *Dense4) Dim() int { return t.d }

// At returns the element (i,j,k,l).
func (t *Dense4) At(i, j, k, l int) float64 {
	return t.data[((i*t.d+j)*t.d+k)*t.d+l]
}

// Set assigns the element (i,j,k,l).
func (t *Dense4) Set(i, j, k, l int, v float64) {
	t.data[((i*t.d+j)*t.d+k)*t.d+l] = v
}

// Matricize exposes the (1,2)x(3,4) matricization as a (d^2 by d^2)
// matrix sharing the tensor's backing storage. Writes through the returned
// matrix mutate the tensor.
func (t *Dense4) Matricize() *mat.Dense {
	return mat.NewDense(t.d*t.d, t.d*t.d, t.data)
}

// FromMatricized wraps a (d^2 by d^2) matrix as the tensor whose
// (1,2)x(3,4) matricization it is. The data is copied.
func FromMatricized(m *mat.Dense, d int) *Dense4 {
	rows, cols := m.Dims()
	if rows != d*d || cols != d*d {
		panic("FromMatricized: matrix is not d^2 by d^2")
	}
	t := NewDense4(d)
	for r := 0; r < rows; r++ {
		copy(t.data[r*cols:(r+1)*cols], m.RawRowView(r))
	}
	return t
}

// Clone returns a deep copy of t.
func (t *Dense4) Clone() *Dense4 {
	res := NewDense4(t.d)
	copy(res.data, t.data)
	return res
}

// Norm is the Frobenius norm over all d^4 elements.
func (t *Dense4) Norm() float64 {
	var sum float64
	for _, v := range t.data {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// AddScaled computes t <- t + alpha*other elementwise.
func (t *Dense4) AddScaled(alpha float64, other *Dense4) {
	if other.d != t.d {
		panic("AddScaled: mode dimensions differ")
	}
	for index := range t.data {
		t.data[index] += alpha * other.data[index]
	}
}

// RelativeError is ||t - ref|| / ||ref||. Tensors of the form X (x) X are
// already sign-invariant, so no rectification is needed in lifted space.
func (t *Dense4) RelativeError(ref *Dense4) float64 {
	if ref.d != t.d {
		panic("RelativeError: mode dimensions differ")
	}
	var num, den float64
	for index := range t.data {
		diff := t.data[index] - ref.data[index]
		num += diff * diff
		den += ref.data[index] * ref.data[index]
	}
	return math.Sqrt(num) / math.Sqrt(den)
}

// Symmetrize averages t over the symmetry group of X (x) X for symmetric
// X: swapping indices within the first pair, within the second pair, and
// swapping the two pairs. The iterates and gradients of the lifted solver
// are passed through this after every step to keep them near the
// algebraic variety the lift lives on.
func (t *Dense4) Symmetrize() *Dense4 {
	d := t.d
	res := NewDense4(d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			for k := 0; k < d; k++ {
				for l := 0; l < d; l++ {
					sum := t.At(i, j, k, l) + t.At(j, i, k, l) +
						t.At(i, j, l, k) + t.At(j, i, l, k) +
						t.At(k, l, i, j) + t.At(l, k, i, j) +
						t.At(k, l, j, i) + t.At(l, k, j, i)
					res.Set(i, j, k, l, sum/8)
				}
			}
		}
	}
	return res
}

// Outer builds the lifted tensor X (x) X, i.e. T[i,j,k,l] = X[i,j]*X[k,l].
// Used by tests and by callers that need a lifted ground truth.
func Outer(x *mat.Dense) *Dense4 {
	rows, cols := x.Dims()
	if rows != cols {
		panic("Outer: matrix is not square")
	}
	d := rows
	t := NewDense4(d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			for k := 0; k < d; k++ {
				for l := 0; l < d; l++ {
					t.Set(i, j, k, l, x.At(i, j)*x.At(k, l))
				}
			}
		}
	}
	return t
}
