// Package projection implements the structural constraint projections the
// solvers plug in: low rank, symmetric low rank and sparsity. Each is a
// pure map from an unconstrained signal-shaped matrix to the nearest
// structured matrix in Frobenius distance. When the requested budget
// already covers the ambient dimension, the input is returned unchanged.
package projection

import "gonum.org/v1/gonum/mat"

// Projection is the constraint-projection strategy. Implementations must
// be idempotent: applying twice equals applying once, up to floating-point
// noise.
type Projection interface {
	Apply(x *mat.Dense) *mat.Dense
}

// Identity is the trivial projection onto the whole space. It exists so
// callers that require a projection plug-in can run unconstrained, e.g.
// the inner least-squares stage of alternating projection.
type Identity struct{}

// Apply returns x unchanged.
func (Identity) Apply(x *mat.Dense) *mat.Dense { return x }
