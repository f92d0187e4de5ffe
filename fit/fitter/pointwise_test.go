package fitter

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pesfit/fit/lineshape"
	"github.com/cwbudde/algo-pesfit/fit/minimize"
	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/internal/testutil"
)

func centerInits(c1, c2 float64) params.Inits {
	return params.Inits{
		"lp1_": {"center": {Value: params.Float(c1)}},
		"lp2_": {"center": {Value: params.Float(c2)}},
	}
}

func TestPointwiseFitRecoversBands(t *testing.T) {
	x := testutil.Linspace(-2, 1, 151)
	y := spectrumAt(x, 0, 0)
	c1, c2 := bandCenters(0, 0)

	res, err := PointwiseFit(context.Background(), x, y,
		WithModel(gaussModel()),
		WithInits(widthInits(), centerInits(c1+0.05, c2-0.05)))
	require.NoError(t, err)

	assert.InDelta(t, c1, res.Params.Value("lp1_center"), 1e-4)
	assert.InDelta(t, c2, res.Params.Value("lp2_center"), 1e-4)
	assert.InDelta(t, 0.15, res.Params.Value("lp1_sigma"), 1e-4)
	assert.Greater(t, res.Rsquared, 0.999)

	peak := 0.0
	for _, v := range res.Data {
		peak = max(peak, v)
	}
	assert.InDelta(t, 1, peak, 1e-12)
	assert.Greater(t, res.Norm, 1.0)
	assert.Len(t, res.BestFit, len(x))
	assert.Len(t, res.InitFit, len(x))

	comps := res.EvalComponents()
	require.Len(t, comps, 2)
	assert.Equal(t, "lp1_", comps[0].Prefix)
	assert.Contains(t, res.BestValues(), "lp2_amplitude")
	assert.Len(t, res.Derived(), 4)
}

func TestPointwiseFitGeneratesModel(t *testing.T) {
	x := testutil.Linspace(-2, 1, 151)
	y := spectrumAt(x, 0, 0)
	res, err := PointwiseFit(context.Background(), x, y,
		WithPeaks(map[string]int{"Gaussian": 2}, "Constant"),
		WithInits(widthInits(), centerInits(-0.95, 0.15)),
		WithYNorm(false))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Model.NComp())
	assert.Equal(t, 1.0, res.Norm)
	assert.InDelta(t, 0, res.Params.Value("bg_c"), 1e-4)
}

func TestPointwiseFitErrors(t *testing.T) {
	ctx := context.Background()
	_, err := PointwiseFit(ctx, []float64{1, 2}, []float64{1}, WithModel(gaussModel()))
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = PointwiseFit(ctx, nil, nil, WithModel(gaussModel()))
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = PointwiseFit(ctx, []float64{1}, []float64{1}, WithPeaks(map[string]int{"Banana": 1}, ""))
	assert.ErrorIs(t, err, lineshape.ErrUnknownProfile)

	bad := params.Inits{"": {"lp9_center": {Value: params.Float(1)}}}
	_, err = PointwiseFit(ctx, []float64{1, 2}, []float64{1, 2}, WithModel(gaussModel()), WithInits(bad))
	assert.ErrorIs(t, err, params.ErrUnknownParameter)
}

func TestPointwiseFitWithJitter(t *testing.T) {
	x := testutil.Linspace(-2, 1, 151)
	y := spectrumAt(x, 0, 0)

	plain, err := PointwiseFit(context.Background(), x, y,
		WithModel(gaussModel()),
		WithInits(widthInits(), centerInits(-1.6, -0.4)))
	require.NoError(t, err)

	jittered, err := PointwiseFit(context.Background(), x, y,
		WithModel(gaussModel()),
		WithInits(widthInits(), centerInits(-1.6, -0.4)),
		WithJitter([]float64{0.3, 0.6}),
		WithJitterCriterion("chisqr", 1e-12))
	require.NoError(t, err)
	assert.LessOrEqual(t, jittered.Chisqr, plain.Chisqr)
}

func fakeResult(center float64) *ModelResult {
	p := params.NewParams()
	p.Add(params.New("lp1_center", center))
	return &ModelResult{Result: &minimize.Result{Params: p, Chisqr: abs(center - 0.5)}}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestRandomVarShiftFindsBestShift(t *testing.T) {
	p := params.NewParams()
	p.Add(params.New("lp1_center", 0))
	fits := 0
	fit := func(_ context.Context, q *params.Params) (*ModelResult, error) {
		fits++
		return fakeResult(q.Value("lp1_center")), nil
	}
	cfg := JitterConfig{Shifts: []float64{0.1, 0.5, 0.9}, ParNames: []string{"lp1_center"}, Attr: "chisqr", Thresh: 0.01}

	best, err := RandomVarShift(context.Background(), fakeResult(0), p, fit, cfg, rand.New(rand.NewSource(3)), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, best.Params.Value("lp1_center"), 1e-12)
	assert.LessOrEqual(t, fits, 3)
	assert.Equal(t, 0.0, p.Value("lp1_center"), "base params must not change")
}

func TestRandomVarShiftStopsWhenGoodEnough(t *testing.T) {
	p := params.NewParams()
	p.Add(params.New("lp1_center", 0.5))
	fit := func(context.Context, *params.Params) (*ModelResult, error) {
		t.Fatal("no refit expected")
		return nil, nil
	}
	cfg := JitterConfig{Shifts: DefaultShifts(), ParNames: []string{"lp1_center"}, Attr: "chisqr", Thresh: 0.85}
	current := fakeResult(0.5)
	best, err := RandomVarShift(context.Background(), current, p, fit, cfg, rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	assert.Same(t, current, best)

	cfg.Attr = "bogus"
	_, err = RandomVarShift(context.Background(), current, p, fit, cfg, rand.New(rand.NewSource(1)), nil)
	assert.ErrorIs(t, err, minimize.ErrUnknownAttr)
}

func TestVarSetterMergesInOrder(t *testing.T) {
	p := gaussModel().MakeParams()
	first := params.Inits{"lp1_": {"center": {Value: params.Float(1), Vary: params.Bool(false)}}}
	second := params.Inits{"lp1_": {"center": {Value: params.Float(2)}}}
	require.NoError(t, VarSetter(p, first, second))

	c, _ := p.Get("lp1_center")
	assert.Equal(t, 2.0, c.Value)
	assert.False(t, c.Vary)

	require.NoError(t, VarSetter(p))
}

func TestDefaultShifts(t *testing.T) {
	s := DefaultShifts()
	require.Len(t, s, 10)
	assert.InDelta(t, 0.1, s[0], 1e-15)
	assert.InDelta(t, 1.0, s[9], 1e-15)
}
