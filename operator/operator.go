// Package operator implements the linear measurement operators used by the
// recovery pipeline. An operator is an immutable pair of maps: a forward
// map taking a signal-shaped matrix to a measurement vector, and its exact
// adjoint taking a measurement vector back to a signal-shaped matrix. The
// adjoint always returns the signal shape; any reshape between the flat and
// shaped representation happens once, inside the operator.
package operator

import "gonum.org/v1/gonum/mat"

// Operator is the measurement-operator contract shared by solvers and
// initializers. Implementations must be linear and satisfy
//
//	<Forward(x), y> = <x, Adjoint(y)>
//
// to machine precision for all x, y of matching shapes; gradient
// correctness in every solver depends on it.
type Operator interface {
	// Forward maps a signal-shaped matrix to its measurement vector.
	Forward(x *mat.Dense) *mat.VecDense
	// Adjoint maps a measurement vector to a signal-shaped matrix.
	Adjoint(y *mat.VecDense) *mat.Dense
	// SignalDims reports the signal shape the operator senses.
	SignalDims() (rows, cols int)
	// NumMeasurements reports the length of Forward's output.
	NumMeasurements() int
}
