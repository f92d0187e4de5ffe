// Package lineshape provides peak and background profiles and the composite
// multipeak model fitted to photoemission energy distribution curves.
//
// Amplitudes are integrated areas, and widths are the standard deviation
// (Gaussian) or half width at half maximum (Lorentzian):
//
//   - [Gaussian]:    amplitude, center, sigma
//   - [Lorentzian]:  amplitude, center, sigma
//   - [Voigt]:       amplitude, center, sigma, gamma (gamma mirrors sigma by default)
//   - [PseudoVoigt]: amplitude, center, sigma, fraction
//   - [Constant], [Linear], [Quadratic], [Exponential] backgrounds
//
// A [MultipeakModel] holds N identical peak components prefixed lp1_ … lpN_
// and an optional background prefixed bg_.
package lineshape
