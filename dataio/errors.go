package dataio

import "errors"

// Errors returned by array and table operations.
var (
	ErrEmptyArray        = errors.New("dataio: empty array")
	ErrRagged            = errors.New("dataio: ragged nested array")
	ErrShape             = errors.New("dataio: shape mismatch")
	ErrUnknownColumn     = errors.New("dataio: unknown column")
	ErrUnsupportedFormat = errors.New("dataio: unsupported file format")
	ErrMissingKey        = errors.New("dataio: missing key")
)
