package projection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sparsity is the hard-thresholding projection: it keeps the S entries of
// largest magnitude and zeroes the rest. It applies to any signal shape;
// in practice it is used on (d by 1) vectors.
type Sparsity struct {
	S int
}

// Apply returns the nearest matrix with at most S nonzero entries.
func (p Sparsity) Apply(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	if p.S >= rows*cols {
		return x
	}
	magnitudes := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			magnitudes = append(magnitudes, math.Abs(x.At(i, j)))
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(magnitudes)))
	threshold := math.Inf(1)
	if p.S > 0 {
		threshold = magnitudes[p.S-1]
	}

	res := mat.NewDense(rows, cols, nil)
	kept := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := x.At(i, j)
			// ties beyond the budget stay zero
			if math.Abs(v) >= threshold && kept < p.S {
				res.Set(i, j, v)
				kept++
			}
		}
	}
	return res
}
