// Package interp provides cubic Hermite interpolation on regular 1-D and
// 2-D grids, used to spread parameters fitted at anchor points over a
// finer grid.
package interp
