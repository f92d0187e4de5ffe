package fitter

import "errors"

// Errors returned by the fitters.
var (
	ErrNoModel        = errors.New("fitter: no model or peak specification")
	ErrEmptyData      = errors.New("fitter: empty data")
	ErrLengthMismatch = errors.New("fitter: length mismatch")
	ErrShape          = errors.New("fitter: unsupported data shape")
	ErrNoInits        = errors.New("fitter: initial conditions not set")
	ErrBandInits      = errors.New("fitter: band initialisation does not cover the patch")
	ErrUnknownBackend = errors.New("fitter: unknown backend")
	ErrNoTask         = errors.New("fitter: no anchor task selected")
	ErrNoResults      = errors.New("fitter: no fit results")
	ErrIndex          = errors.New("fitter: index out of range")
)
