// Package gonumExtensions collects small matrix helpers missing from
// gonum.org/v1/gonum/mat that the recovery packages share.
package gonumExtensions

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vectorize flattens a (m by n) matrix into a m*n vector in row-major
// order, i.e. vec(X)[i*n+j] = X[i,j]. All packages in this module agree
// on this ordering; Devectorize is the exact inverse.
func Vectorize(matrix mat.Matrix) *mat.VecDense {
	m, n := matrix.Dims()
	data := make([]float64, m*n)
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			data[row*n+col] = matrix.At(row, col)
		}
	}
	return mat.NewVecDense(m*n, data)
}

// Devectorize reshapes a m*n vector back into a (m by n) matrix,
// inverting Vectorize.
func Devectorize(v mat.Vector, m, n int) *mat.Dense {
	if v.Len() != m*n {
		panic("Devectorize: vector length does not match requested shape")
	}
	data := make([]float64, m*n)
	for index := range data {
		data[index] = v.AtVec(index)
	}
	return mat.NewDense(m, n, data)
}

// Symmetrize returns (X + X^T)/2 for a square matrix X.
func Symmetrize(x mat.Matrix) *mat.Dense {
	m, n := x.Dims()
	if m != n {
		panic("Symmetrize: matrix is not square")
	}
	res := mat.NewDense(m, n, nil)
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			res.Set(row, col, 0.5*(x.At(row, col)+x.At(col, row)))
		}
	}
	return res
}

// Dot is the Frobenius inner product <A, B> = sum_ij A_ij B_ij.
func Dot(a, b mat.Matrix) float64 {
	m, n := a.Dims()
	if m2, n2 := b.Dims(); m2 != m || n2 != n {
		panic("Dot: dimension mismatch")
	}
	var sum float64
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			sum += a.At(row, col) * b.At(row, col)
		}
	}
	return sum
}

// NANORINF checks if there are any NAN or INF in matrix
func NANORINF(matrix mat.Matrix) bool {
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if math.IsNaN(matrix.At(row, col)) || math.IsInf(matrix.At(row, col), 0) {
				return true
			}
		}
	}
	return false
}
