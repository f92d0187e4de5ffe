// Package minimize performs bounded least-squares minimisation over a
// [params.Params] collection.
//
// Only free parameters (varying and not mirrored) are handed to the
// optimiser. Finite bounds are enforced by mapping each bounded parameter to
// an unbounded internal variable, so every method sees an unconstrained
// problem:
//
//	min and max:  x = min + (sin(u)+1)·(max−min)/2
//	min only:     x = min − 1 + sqrt(u²+1)
//	max only:     x = max + 1 − sqrt(u²+1)
//
// Three methods are available: Levenberg–Marquardt ("leastsq", the
// default), Nelder–Mead ("nelder") and L-BFGS on a finite-difference
// gradient ("lbfgsb"). Whatever the method, the covariance matrix is
// estimated from the residual Jacobian at the optimum and scaled by the
// reduced chi-square.
package minimize
