package minimize

import "errors"

var (
	// ErrUnknownMethod is returned for an unsupported method name.
	ErrUnknownMethod = errors.New("minimize: unknown method")
	// ErrUnknownAttr is returned by Result.Attr for an unknown statistic.
	ErrUnknownAttr = errors.New("minimize: unknown result attribute")
	// ErrNoData is returned when the residual has zero length.
	ErrNoData = errors.New("minimize: residual has no points")
	// ErrNaN is returned when the residual contains NaN values.
	ErrNaN = errors.New("minimize: residual contains NaN")
)
