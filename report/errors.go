package report

import "errors"

var (
	ErrNilResult    = errors.New("report: nil result")
	ErrEmptyPath    = errors.New("report: empty band path")
	ErrTickMismatch = errors.New("report: symbol and index counts differ")
	ErrEnergyRange  = errors.New("report: no energy range")
)
