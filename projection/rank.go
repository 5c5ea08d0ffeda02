package projection

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/wtree101/Compressed-Sensing-General-Platform/gonumExtensions"
)

// Rank projects onto the set of matrices of rank at most R by truncating
// the singular value decomposition. Optimal in Frobenius distance by
// Eckart-Young.
type Rank struct {
	R int
}

// Apply returns the nearest matrix of rank at most R.
func (p Rank) Apply(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	if p.R >= rows || p.R >= cols {
		return x
	}
	if gonumExtensions.NANORINF(x) {
		panic("Rank.Apply: non-finite input, iterate diverged")
	}
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		panic("Rank.Apply: SVD failed to converge")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	res := mat.NewDense(rows, cols, nil)
	var term mat.Dense
	for k := 0; k < p.R && k < len(values); k++ {
		term.Outer(values[k], u.ColView(k), v.ColView(k))
		res.Add(res, &term)
	}
	return res
}

// SymmetricRank projects a square matrix onto the symmetric matrices of
// rank at most R. The input is symmetrized first, the R eigenpairs of
// largest magnitude are kept, and the output is re-symmetrized to cancel
// floating-point asymmetry from the reconstruction.
type SymmetricRank struct {
	R int
}

// Apply returns the nearest symmetric matrix of rank at most R.
func (p SymmetricRank) Apply(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	if rows != cols {
		panic("SymmetricRank.Apply: matrix is not square")
	}
	if p.R >= rows {
		return gonumExtensions.Symmetrize(x)
	}
	if gonumExtensions.NANORINF(x) {
		panic("SymmetricRank.Apply: non-finite input, iterate diverged")
	}
	sym := gonumExtensions.Symmetrize(x)
	packed := mat.NewSymDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := i; j < rows; j++ {
			packed.SetSym(i, j, sym.At(i, j))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(packed, true) {
		panic("SymmetricRank.Apply: eigendecomposition failed to converge")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// order eigenpairs by decreasing magnitude
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return abs(values[order[a]]) > abs(values[order[b]])
	})

	res := mat.NewDense(rows, rows, nil)
	var term mat.Dense
	for k := 0; k < p.R; k++ {
		idx := order[k]
		q := vectors.ColView(idx)
		term.Outer(values[idx], q, q)
		res.Add(res, &term)
	}
	return gonumExtensions.Symmetrize(res)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
