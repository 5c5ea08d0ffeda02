// Package signal synthesizes ground-truth signals for recovery trials and
// provides the error metrics reported against them. Signals are real and
// represented uniformly as *mat.Dense; a length-d vector is a (d by 1)
// matrix. Ground truths are normalized to unit Frobenius norm so that
// relative errors across problem sizes are comparable.
package signal

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomSparseVector draws a length-d vector with s standard Gaussian
// entries on a uniformly chosen support, normalized to unit norm.
func RandomSparseVector(rng *rand.Rand, d, s int) *mat.Dense {
	if s > d {
		s = d
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	res := mat.NewDense(d, 1, nil)
	for _, index := range rng.Perm(d)[:s] {
		res.Set(index, 0, normal.Rand())
	}
	return Normalize(res)
}

// RandomLowRank draws a (d1 by d2) rank-r matrix U V^T with Gaussian
// factors, normalized to unit Frobenius norm.
func RandomLowRank(rng *rand.Rand, d1, d2, r int) *mat.Dense {
	u := gaussian(rng, d1, r)
	v := gaussian(rng, d2, r)
	res := mat.NewDense(d1, d2, nil)
	res.Mul(u, v.T())
	return Normalize(res)
}

// RandomPSD draws a (d by d) symmetric positive-semidefinite rank-r matrix
// U U^T with a Gaussian factor, normalized to unit Frobenius norm.
func RandomPSD(rng *rand.Rand, d, r int) *mat.Dense {
	u := gaussian(rng, d, r)
	res := mat.NewDense(d, d, nil)
	res.Mul(u, u.T())
	return Normalize(res)
}

// Gaussian draws a (m by n) matrix of independent standard normals.
func Gaussian(rng *rand.Rand, m, n int) *mat.Dense {
	return gaussian(rng, m, n)
}

func gaussian(rng *rand.Rand, m, n int) *mat.Dense {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	data := make([]float64, m*n)
	for index := range data {
		data[index] = normal.Rand()
	}
	return mat.NewDense(m, n, data)
}

// Normalize scales x in place to unit Frobenius norm and returns it.
// A zero matrix is returned unchanged.
func Normalize(x *mat.Dense) *mat.Dense {
	norm := mat.Norm(x, 2)
	if norm == 0 {
		return x
	}
	x.Scale(1/norm, x)
	return x
}
