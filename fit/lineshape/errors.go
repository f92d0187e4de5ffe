package lineshape

import "errors"

// Errors returned by model construction.
var (
	ErrUnknownProfile    = errors.New("lineshape: unknown profile")
	ErrNoPeaks           = errors.New("lineshape: peak count must be > 0")
	ErrMultiplePeakTypes = errors.New("lineshape: only one peak type is supported")
	ErrNoComponents      = errors.New("lineshape: model has no components")
	ErrDuplicatePrefix   = errors.New("lineshape: duplicate component prefix")
	ErrNotPeak           = errors.New("lineshape: profile is not a peak")
)
