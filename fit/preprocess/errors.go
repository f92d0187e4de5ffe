package preprocess

import "errors"

// Errors returned by preprocessing functions.
var (
	ErrEmptyInput     = errors.New("preprocess: empty input")
	ErrLengthMismatch = errors.New("preprocess: length mismatch")
	ErrInvalidRange   = errors.New("preprocess: invalid energy range")
	ErrInvalidSigma   = errors.New("preprocess: smoothing width must be > 0")
)
