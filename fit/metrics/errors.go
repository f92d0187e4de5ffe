package metrics

import "errors"

var (
	ErrNoData         = errors.New("metrics: no data loaded")
	ErrShapeMismatch  = errors.New("metrics: shape mismatch")
	ErrMissingColumn  = errors.New("metrics: missing result column")
	ErrInvalidBandNum = errors.New("metrics: band count must be positive")
)
