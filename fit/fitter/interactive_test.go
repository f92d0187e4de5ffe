package fitter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pesfit/fit/minimize"
	"github.com/cwbudde/algo-pesfit/fit/params"
)

func anchorResult(r, c int) *ModelResult {
	c1, c2 := bandCenters(r, c)
	p := params.NewParams()
	p.Add(params.New("lp1_center", c1))
	p.Add(params.New("lp2_center", c2))
	return &ModelResult{Result: &minimize.Result{Params: p}}
}

func TestInteractiveFitterTasks(t *testing.T) {
	x, y, _ := synthPatch(5, 5)
	f, err := NewInteractiveFitter(x, y, 5, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, f.CoarseShape())
	assert.Equal(t, 5, f.FineShape())
	require.Len(t, f.Anchors(), 9)

	_, _, ok := f.Task()
	assert.False(t, ok)
	_, err = f.Fit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoTask)

	var visited [][2]int
	for {
		r, c, err := f.NextTask()
		if err != nil {
			assert.ErrorIs(t, err, ErrNoTask)
			break
		}
		visited = append(visited, [2]int{r, c})
	}
	assert.Equal(t, f.Anchors(), visited)
	assert.Equal(t, [2]int{4, 2}, visited[7])

	r, c, err := f.Restart()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, []int{r, c})

	require.NoError(t, f.SetTask(3, 1))
	r, c, ok = f.Task()
	assert.True(t, ok)
	assert.Equal(t, []int{3, 1}, []int{r, c})
	assert.ErrorIs(t, f.SetTask(5, 0), ErrIndex)
}

func TestInteractiveFitterFit(t *testing.T) {
	x, y, _ := synthPatch(3, 3)
	f, err := NewInteractiveFitter(x, y, 3, 2, 1)
	require.NoError(t, err)
	require.NoError(t, f.SetTask(2, 1))

	c1, c2 := bandCenters(2, 1)
	inits := params.Merge(widthInits(), centerInits(c1+0.03, c2-0.03))
	res, err := f.Fit(context.Background(), inits, WithModel(gaussModel()))
	require.NoError(t, err)
	assert.Same(t, res, f.Current())
	assert.Equal(t, y.Row(2*3+1), f.Spectrum())
	assert.InDelta(t, c1, res.Params.Value("lp1_center"), 1e-4)
	assert.InDelta(t, c2, res.Params.Value("lp2_center"), 1e-4)
}

func TestInteractiveFitterExtractInterpolate(t *testing.T) {
	x, y, _ := synthPatch(5, 5)
	f, err := NewInteractiveFitter(x, y, 5, 2, 1)
	require.NoError(t, err)

	_, err = f.Extract(2, "center")
	assert.ErrorIs(t, err, ErrNoResults)
	_, err = f.Interpolate()
	assert.ErrorIs(t, err, ErrNoResults)

	for _, a := range f.Anchors() {
		require.NoError(t, f.Keep(anchorResult(a[0], a[1]), -1))
	}
	require.NoError(t, f.Keep(anchorResult(0, 0), 0))
	assert.ErrorIs(t, f.Keep(anchorResult(0, 0), 9), ErrIndex)
	assert.ErrorIs(t, f.Keep(nil, -1), ErrNoResults)
	assert.Len(t, f.Kept(), 9)

	coarse, err := f.Extract(2, "center")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 3}, coarse.Shape)
	want1, want2 := bandCenters(4, 2)
	assert.InDelta(t, want1, coarse.At(0, 2, 1), 1e-15)
	assert.InDelta(t, want2, coarse.At(1, 2, 1), 1e-15)

	fine, err := f.Interpolate()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5, 5}, fine.Shape)
	// The band positions are linear in (r, c), which cubic Hermite
	// interpolation reproduces exactly.
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			b1, b2 := bandCenters(r, c)
			assert.InDelta(t, b1, fine.At(0, r, c), 1e-12)
			assert.InDelta(t, b2, fine.At(1, r, c), 1e-12)
		}
	}

	flat, err := f.Interpolate(2, 25)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 25}, flat.Shape)

	_, err = f.Extract(3, "center")
	assert.ErrorIs(t, err, params.ErrUnknownParameter)
}

func TestInteractiveFitterValidation(t *testing.T) {
	x, y, _ := synthPatch(3, 3)
	flat, _ := y.Reshape(9, len(x))
	_, err := NewInteractiveFitter(x, flat, 3, 1, 1)
	assert.ErrorIs(t, err, ErrShape)
	_, err = NewInteractiveFitter(x[:5], y, 3, 1, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = NewInteractiveFitter(x, y, 4, 1, 1)
	assert.ErrorIs(t, err, ErrIndex)
	_, err = NewInteractiveFitter(x, y, 3, 0, 1)
	assert.ErrorIs(t, err, ErrIndex)
}
