package fitter

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/lineshape"
	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/internal/interp"
)

// InteractiveFitter steps through anchor spectra on a coarse grid of a
// size × size patch, fits each one under manual control, and interpolates
// the kept results onto a finer grid.
type InteractiveFitter struct {
	x    []float64
	data dataio.Array

	size       int
	coarseStep int
	coarse     []int
	fine       []int
	anchors    [][2]int

	cursor  int
	hasTask bool
	row     int
	col     int

	spectrum  []float64
	current   *ModelResult
	kept      []*ModelResult
	coarseFit dataio.Array
}

// grid returns 0, step, 2·step, … below size.
func grid(size, step int) []int {
	var out []int
	for i := 0; i < size; i += step {
		out = append(out, i)
	}
	return out
}

// NewInteractiveFitter prepares anchors every coarseStep pixels; fineStep
// is the spacing of the interpolated output.
func NewInteractiveFitter(x []float64, data dataio.Array, size, coarseStep, fineStep int) (*InteractiveFitter, error) {
	if data.NDim() != 3 {
		return nil, fmt.Errorf("%w: want rows × cols × energy, got %v", ErrShape, data.Shape)
	}
	if data.Len() != len(x) {
		return nil, fmt.Errorf("%w: %d energies, spectra of length %d", ErrLengthMismatch, len(x), data.Len())
	}
	if size <= 0 || size > data.Shape[0] || size > data.Shape[1] {
		return nil, fmt.Errorf("%w: size %d for patch %v", ErrIndex, size, data.Shape)
	}
	if coarseStep <= 0 || fineStep <= 0 {
		return nil, fmt.Errorf("%w: steps must be positive", ErrIndex)
	}

	f := &InteractiveFitter{
		x:          x,
		data:       data,
		size:       size,
		coarseStep: coarseStep,
		coarse:     grid(size, coarseStep),
		fine:       grid(size, fineStep),
	}
	for _, r := range f.coarse {
		for _, c := range f.coarse {
			f.anchors = append(f.anchors, [2]int{r, c})
		}
	}
	return f, nil
}

// Anchors returns the (row, col) anchor positions in visiting order.
func (f *InteractiveFitter) Anchors() [][2]int {
	out := make([][2]int, len(f.anchors))
	copy(out, f.anchors)
	return out
}

// CoarseShape returns the side length of the anchor grid.
func (f *InteractiveFitter) CoarseShape() int { return len(f.coarse) }

// FineShape returns the side length of the interpolated grid.
func (f *InteractiveFitter) FineShape() int { return len(f.fine) }

// NextTask advances to the next anchor.
func (f *InteractiveFitter) NextTask() (row, col int, err error) {
	if f.cursor >= len(f.anchors) {
		f.hasTask = false
		return 0, 0, fmt.Errorf("%w: all %d anchors visited", ErrNoTask, len(f.anchors))
	}
	a := f.anchors[f.cursor]
	f.cursor++
	f.row, f.col, f.hasTask = a[0], a[1], true
	return a[0], a[1], nil
}

// SetTask selects an explicit spectrum, anchor or not.
func (f *InteractiveFitter) SetTask(row, col int) error {
	if row < 0 || col < 0 || row >= f.data.Shape[0] || col >= f.data.Shape[1] {
		return fmt.Errorf("%w: (%d, %d)", ErrIndex, row, col)
	}
	f.row, f.col, f.hasTask = row, col, true
	return nil
}

// Restart rewinds to the first anchor.
func (f *InteractiveFitter) Restart() (row, col int, err error) {
	f.cursor = 0
	return f.NextTask()
}

// Task returns the current spectrum position.
func (f *InteractiveFitter) Task() (row, col int, ok bool) {
	return f.row, f.col, f.hasTask
}

// Fit fits the current spectrum with the model from opts, applying inits.
// The spectrum is always normalised by its maximum.
func (f *InteractiveFitter) Fit(ctx context.Context, inits params.Inits, opts ...FitOption) (*ModelResult, error) {
	if !f.hasTask {
		return nil, ErrNoTask
	}
	elen := f.data.Len()
	off := (f.row*f.data.Shape[1] + f.col) * elen
	f.spectrum = f.data.Data[off : off+elen]

	all := append(append([]FitOption(nil), opts...), WithInits(inits), WithYNorm(true))
	res, err := PointwiseFit(ctx, f.x, f.spectrum, all...)
	if err != nil {
		return nil, err
	}
	f.current = res
	return res, nil
}

// Spectrum returns the spectrum of the last Fit.
func (f *InteractiveFitter) Spectrum() []float64 { return f.spectrum }

// Current returns the result of the last Fit.
func (f *InteractiveFitter) Current() *ModelResult { return f.current }

// Keep stores res. A negative index appends; otherwise the result at index
// is replaced.
func (f *InteractiveFitter) Keep(res *ModelResult, index int) error {
	if res == nil {
		return ErrNoResults
	}
	if index < 0 {
		f.kept = append(f.kept, res)
		return nil
	}
	if index >= len(f.kept) {
		return fmt.Errorf("%w: keep index %d of %d", ErrIndex, index, len(f.kept))
	}
	f.kept[index] = res
	return nil
}

// Kept returns the stored results.
func (f *InteractiveFitter) Kept() []*ModelResult { return f.kept }

// Extract gathers lp1_<parname> … lpN_<parname> from the kept results into
// an ncomp × n × n array over the anchor grid. One result per anchor must
// have been kept, in anchor order.
func (f *InteractiveFitter) Extract(ncomp int, parname string) (dataio.Array, error) {
	if len(f.kept) != len(f.anchors) {
		return dataio.Array{}, fmt.Errorf("%w: %d kept for %d anchors", ErrNoResults, len(f.kept), len(f.anchors))
	}
	n := len(f.coarse)
	out := dataio.NewArray(ncomp, n, n)
	for i, res := range f.kept {
		for c := 0; c < ncomp; c++ {
			name := fmt.Sprintf("%s%d_%s", lineshape.PeakPrefix, c+1, parname)
			par, ok := res.Params.Get(name)
			if !ok {
				return dataio.Array{}, fmt.Errorf("%w: %s", params.ErrUnknownParameter, name)
			}
			out.Data[c*n*n+i] = par.Value
		}
	}
	f.coarseFit = out
	return out, nil
}

// Interpolate spreads the extracted anchor values onto the fine grid with
// bicubic Hermite interpolation, giving ncomp × m × m. Positions beyond
// the last anchor take the edge values. A non-empty shape reshapes the
// result.
func (f *InteractiveFitter) Interpolate(shape ...int) (dataio.Array, error) {
	if f.coarseFit.Size() == 0 {
		return dataio.Array{}, ErrNoResults
	}
	ncomp, n := f.coarseFit.Shape[0], len(f.coarse)
	m := len(f.fine)
	pos := make([]float64, m)
	for i, v := range f.fine {
		pos[i] = float64(v)
	}

	out := dataio.NewArray(ncomp, m, m)
	for c := 0; c < ncomp; c++ {
		g := make([][]float64, n)
		for r := range g {
			g[r] = f.coarseFit.Data[(c*n+r)*n : (c*n+r+1)*n]
		}
		fine := interp.Resample(g, float64(f.coarseStep), pos, pos)
		for r, row := range fine {
			copy(out.Data[(c*m+r)*m:], row)
		}
	}
	if len(shape) > 0 {
		return out.Reshape(shape...)
	}
	return out, nil
}
