package interp

import "math"

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// at returns samples[i] with linear extrapolation past either end.
func at(samples []float64, i int) float64 {
	n := len(samples)
	switch {
	case i < 0:
		return samples[0] + float64(i)*(samples[1]-samples[0])
	case i >= n:
		return samples[n-1] + float64(i-n+1)*(samples[n-1]-samples[n-2])
	}
	return samples[i]
}

// Sample evaluates samples at the fractional index pos. Positions outside
// [0, len-1] are clamped to the ends. A single sample is returned as is.
func Sample(samples []float64, pos float64) float64 {
	n := len(samples)
	switch n {
	case 0:
		return math.NaN()
	case 1:
		return samples[0]
	}
	pos = math.Min(math.Max(pos, 0), float64(n-1))
	i := int(math.Floor(pos))
	if i == n-1 {
		return samples[n-1]
	}
	t := pos - float64(i)
	return Hermite4(t, at(samples, i-1), samples[i], samples[i+1], at(samples, i+2))
}

// Grid2D evaluates a row-major grid at fractional indices (r, c) by
// interpolating along columns first and then along the row.
func Grid2D(grid [][]float64, r, c float64) float64 {
	if len(grid) == 0 {
		return math.NaN()
	}
	col := make([]float64, len(grid))
	for i, row := range grid {
		col[i] = Sample(row, c)
	}
	return Sample(col, r)
}

// Resample evaluates grid, whose nodes sit at coarse coordinates
// 0, step, 2·step, …, at each pair of fine coordinates rows × cols.
func Resample(grid [][]float64, step float64, rows, cols []float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = make([]float64, len(cols))
		for j, c := range cols {
			out[i][j] = Grid2D(grid, r/step, c/step)
		}
	}
	return out
}
