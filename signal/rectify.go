package signal

import "gonum.org/v1/gonum/mat"

// Magnitude-only measurements cannot distinguish x from -x. Rectify
// resolves the ambiguity when reporting errors: it returns the sign
// alignment of est that is closest to truth, together with the relative
// error of that alignment,
//
//	min(||est - truth||, ||est + truth||) / ||truth||.
//
// The returned matrix is est or its negation, never a fresh mixture.
func Rectify(est, truth *mat.Dense) (*mat.Dense, float64) {
	var diff, sum mat.Dense
	diff.Sub(est, truth)
	sum.Add(est, truth)
	normTruth := mat.Norm(truth, 2)
	errMinus := mat.Norm(&diff, 2)
	errPlus := mat.Norm(&sum, 2)
	if errPlus < errMinus {
		flipped := mat.DenseCopyOf(est)
		flipped.Scale(-1, flipped)
		return flipped, errPlus / normTruth
	}
	return est, errMinus / normTruth
}

// RectifiedError reports only the error component of Rectify.
func RectifiedError(est, truth *mat.Dense) float64 {
	_, err := Rectify(est, truth)
	return err
}

// RelativeError is the plain ||est - truth|| / ||truth||, appropriate for
// linear measurement models where no sign ambiguity exists.
func RelativeError(est, truth *mat.Dense) float64 {
	var diff mat.Dense
	diff.Sub(est, truth)
	return mat.Norm(&diff, 2) / mat.Norm(truth, 2)
}
