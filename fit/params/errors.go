package params

import "errors"

// Errors returned by parameter operations.
var (
	ErrUnknownParameter = errors.New("params: unknown parameter")
	ErrUnknownKey       = errors.New("params: unknown setting key")
	ErrLengthMismatch   = errors.New("params: length mismatch")
	ErrInvalidBounds    = errors.New("params: min exceeds max")
	ErrInvalidNesting   = errors.New("params: invalid nesting depth")
	ErrSelfReference    = errors.New("params: parameter mirrors itself")
)
