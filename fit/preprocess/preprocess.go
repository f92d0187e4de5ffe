package preprocess

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pesfit/dataio"
)

// Range selects energy indices [Lo, Hi). The zero value selects everything;
// Hi <= 0 means the end of the axis.
type Range struct {
	Lo int `yaml:"lo" json:"lo"`
	Hi int `yaml:"hi" json:"hi"`
}

// Bounds resolves the range against an axis of length n.
func (r Range) Bounds(n int) (lo, hi int, err error) {
	lo, hi = r.Lo, r.Hi
	if hi <= 0 {
		hi = n
	}
	if lo < 0 || lo >= hi || hi > n {
		return 0, 0, fmt.Errorf("%w: [%d, %d) of %d", ErrInvalidRange, r.Lo, r.Hi, n)
	}
	return lo, hi, nil
}

// Crop selects the range along the energy axis of x and along the last axis
// of y. Both results are copies.
func Crop(x []float64, y dataio.Array, r Range) ([]float64, dataio.Array, error) {
	if len(x) == 0 || y.Size() == 0 {
		return nil, dataio.Array{}, ErrEmptyInput
	}
	if y.Len() != len(x) {
		return nil, dataio.Array{}, fmt.Errorf("%w: %d energies, spectra of length %d", ErrLengthMismatch, len(x), y.Len())
	}
	lo, hi, err := r.Bounds(len(x))
	if err != nil {
		return nil, dataio.Array{}, err
	}

	xs := make([]float64, hi-lo)
	copy(xs, x[lo:hi])

	shape := append([]int(nil), y.Shape...)
	shape[len(shape)-1] = hi - lo
	out := dataio.NewArray(shape...)
	for i := 0; i < y.Rows(); i++ {
		copy(out.Row(i), y.Row(i)[lo:hi])
	}
	return xs, out, nil
}

// SubtractMin removes each spectrum's minimum in place.
func SubtractMin(y dataio.Array) {
	for i := 0; i < y.Rows(); i++ {
		row := y.Row(i)
		lo := math.Inf(1)
		for _, v := range row {
			if v < lo {
				lo = v
			}
		}
		for j := range row {
			row[j] -= lo
		}
	}
}

// Normalize writes y divided by its maximum into dst and returns the
// maximum. A non-positive maximum leaves the values unscaled.
func Normalize(dst, y []float64) float64 {
	peak := math.Inf(-1)
	for _, v := range y {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 || math.IsInf(peak, 0) || math.IsNaN(peak) {
		copy(dst, y)
		return peak
	}
	vecmath.ScaleBlock(dst, y, 1/peak)
	return peak
}
