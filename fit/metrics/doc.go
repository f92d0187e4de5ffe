// Package metrics scores groups of fit results against known band
// positions.
//
// A [GroupMetrics] loads one parameter (for example "center") of every
// band from each result table and reports the error norm and the
// instability (variance of the residual) of each table relative to a
// ground truth.
package metrics
