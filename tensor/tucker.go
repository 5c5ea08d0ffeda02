package tensor

import "gonum.org/v1/gonum/mat"

// unfold builds the mode-n unfolding of t as a (d by d^3) matrix: rows are
// indexed by the mode-n index, columns by the remaining three indices
// flattened in their original order.
func (t *Dense4) unfold(mode int) *mat.Dense {
	d := t.d
	res := mat.NewDense(d, d*d*d, nil)
	idx := [4]int{}
	for i := 0; i < d; i++ {
		idx[0] = i
		for j := 0; j < d; j++ {
			idx[1] = j
			for k := 0; k < d; k++ {
				idx[2] = k
				for l := 0; l < d; l++ {
					idx[3] = l
					col := 0
					for axis := 0; axis < 4; axis++ {
						if axis == mode {
							continue
						}
						col = col*d + idx[axis]
					}
					res.Set(idx[mode], col, t.At(i, j, k, l))
				}
			}
		}
	}
	return res
}

// fold inverts unfold for the given mode.
func fold(m *mat.Dense, mode, d int) *Dense4 {
	t := NewDense4(d)
	idx := [4]int{}
	for i := 0; i < d; i++ {
		idx[0] = i
		for j := 0; j < d; j++ {
			idx[1] = j
			for k := 0; k < d; k++ {
				idx[2] = k
				for l := 0; l < d; l++ {
					idx[3] = l
					col := 0
					for axis := 0; axis < 4; axis++ {
						if axis == mode {
							continue
						}
						col = col*d + idx[axis]
					}
					t.Set(i, j, k, l, m.At(idx[mode], col))
				}
			}
		}
	}
	return t
}

// TuckerTruncate applies a multilinear rank truncation with target
// multirank (r,r,r,r): for each of the four modes in turn, the unfolding
// is projected onto the span of its r leading left singular vectors and
// refolded. If r covers the mode dimension the tensor passes through
// unchanged.
func TuckerTruncate(t *Dense4, r int) *Dense4 {
	d := t.d
	if r >= d {
		return t
	}
	current := t
	for mode := 0; mode < 4; mode++ {
		unfolded := current.unfold(mode)

		var svd mat.SVD
		if !svd.Factorize(unfolded, mat.SVDThin) {
			panic("TuckerTruncate: SVD failed to converge")
		}
		var u mat.Dense
		svd.UTo(&u)
		ur := u.Slice(0, d, 0, r)

		// project rows onto the leading left singular subspace
		var coeff, projected mat.Dense
		coeff.Mul(ur.T(), unfolded)
		projected.Mul(ur, &coeff)

		current = fold(&projected, mode, d)
	}
	return current
}
