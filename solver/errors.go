package solver

import "errors"

// ErrDiverged reports numerical divergence of an iterate. Most solvers
// tolerate blow-up and simply let the trajectory grow; the Riemannian
// solver opts in to early termination and returns this error alongside the
// partial trajectories. The asymmetry is deliberate per-algorithm
// behavior: the retraction step is far more sensitive to an oversized step
// than the plain factored updates are.
var ErrDiverged = errors.New("solver: iterate diverged")
