package minimize

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/internal/testutil"
)

type gaussFixture struct {
	x, y []float64
}

func newGaussFixture(noise float64) gaussFixture {
	x := testutil.Linspace(-2, 2, 121)
	y := testutil.GaussianSpectrum(x, 0.1, testutil.Peak{Amplitude: 2, Center: 0.3, Sigma: 0.5})
	if noise > 0 {
		y = testutil.AddNoise(y, 11, noise)
	}
	return gaussFixture{x: x, y: y}
}

func (f gaussFixture) residual(dst []float64, p *params.Params) {
	amp, cen, sig, c := p.Value("amp"), p.Value("cen"), p.Value("sig"), p.Value("c")
	for i, x := range f.x {
		d := (x - cen) / sig
		dst[i] = f.y[i] - (amp/(sig*math.Sqrt(2*math.Pi))*math.Exp(-0.5*d*d) + c)
	}
}

func startParams() *params.Params {
	p := params.NewParams()
	p.Add(params.New("amp", 1))
	p.Add(params.New("cen", 0))
	sig := params.New("sig", 1)
	sig.Min = 0
	p.Add(sig)
	p.Add(params.New("c", 0))
	return p
}

func TestMinimizeRecoversGaussian(t *testing.T) {
	f := newGaussFixture(0)
	for _, tt := range []struct {
		method Method
		tol    float64
	}{
		{MethodLeastSq, 1e-5},
		{MethodNelder, 1e-3},
		{MethodLBFGSB, 1e-3},
	} {
		t.Run(string(tt.method), func(t *testing.T) {
			res, err := Minimize(context.Background(), f.residual, len(f.x), startParams(),
				WithMethod(tt.method), WithMaxIterations(5000), WithData(f.y))
			require.NoError(t, err)
			assert.Equal(t, tt.method, res.Method)
			assert.InDelta(t, 2, res.Params.Value("amp"), tt.tol*10)
			assert.InDelta(t, 0.3, res.Params.Value("cen"), tt.tol)
			assert.InDelta(t, 0.5, res.Params.Value("sig"), tt.tol)
			assert.InDelta(t, 0.1, res.Params.Value("c"), tt.tol)
			assert.Greater(t, res.Rsquared, 0.999)
			assert.Positive(t, res.Nfev)
		})
	}
}

func TestMinimizeStatistics(t *testing.T) {
	f := newGaussFixture(0.01)
	res, err := Minimize(context.Background(), f.residual, len(f.x), startParams())
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, 121, res.Ndata)
	assert.Equal(t, 4, res.Nvarys)
	assert.Equal(t, 117, res.Nfree)
	assert.InDelta(t, res.Chisqr/117, res.Redchi, 1e-15)
	assert.InDelta(t, 121*math.Log(res.Chisqr/121)+8, res.AIC, 1e-9)
	assert.InDelta(t, 121*math.Log(res.Chisqr/121)+math.Log(121)*4, res.BIC, 1e-9)
	assert.True(t, math.IsNaN(res.Rsquared))

	require.NotNil(t, res.Covar)
	for _, name := range res.VarNames {
		par, _ := res.Params.Get(name)
		assert.Greater(t, par.Stderr, 0.0, name)
		assert.Less(t, par.Stderr, 0.1, name)
	}
	c, ok := res.Correl("amp", "sig")
	require.True(t, ok)
	assert.LessOrEqual(t, math.Abs(c), 1.0)

	for name, want := range map[string]float64{"chisqr": res.Chisqr, "redchi": res.Redchi, "nvarys": 4} {
		got, err := res.Attr(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = res.Attr("goodness")
	assert.ErrorIs(t, err, ErrUnknownAttr)
}

func TestMinimizeRespectsBounds(t *testing.T) {
	f := newGaussFixture(0)
	p := startParams()
	require.NoError(t, p.Set("cen", params.Setting{Min: params.Float(-1), Max: params.Float(0.1)}))
	require.NoError(t, p.Set("c", params.Setting{Max: params.Float(0.05)}))

	res, err := Minimize(context.Background(), f.residual, len(f.x), p)
	require.NoError(t, err)
	cen := res.Params.Value("cen")
	assert.LessOrEqual(t, cen, 0.1)
	assert.GreaterOrEqual(t, cen, -1.0)
	assert.InDelta(t, 0.1, cen, 5e-3)
	assert.LessOrEqual(t, res.Params.Value("c"), 0.05)

	assert.Equal(t, 0.0, p.Value("cen"), "input params must not change")
}

func TestMinimizeFixedAndMirrored(t *testing.T) {
	f := newGaussFixture(0)
	p := startParams()
	require.NoError(t, p.Set("c", params.Setting{Value: params.Float(0.1), Vary: params.Bool(false)}))
	p.Add(params.New("sig2", 0))
	require.NoError(t, p.Set("sig2", params.Setting{Expr: params.String("sig")}))

	res, err := Minimize(context.Background(), f.residual, len(f.x), p)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Nvarys)
	assert.Equal(t, []string{"amp", "cen", "sig"}, res.VarNames)
	assert.Equal(t, 0.1, res.Params.Value("c"))
	assert.Equal(t, res.Params.Value("sig"), res.Params.Value("sig2"))

	sig, _ := res.Params.Get("sig")
	sig2, _ := res.Params.Get("sig2")
	assert.Equal(t, sig.Stderr, sig2.Stderr)
}

func TestMinimizeNoFreeParameters(t *testing.T) {
	f := newGaussFixture(0)
	p := startParams()
	for _, name := range p.Names() {
		require.NoError(t, p.Set(name, params.Setting{Vary: params.Bool(false)}))
	}
	res, err := Minimize(context.Background(), f.residual, len(f.x), p)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Nvarys)
	assert.Equal(t, 1, res.Nfev)
	assert.Nil(t, res.Covar)
}

func TestMinimizeErrors(t *testing.T) {
	f := newGaussFixture(0)

	_, err := Minimize(context.Background(), f.residual, 0, startParams())
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Minimize(context.Background(), f.residual, len(f.x), startParams(), WithMethod("powell"))
	assert.ErrorIs(t, err, ErrUnknownMethod)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Minimize(ctx, f.residual, len(f.x), startParams())
	assert.ErrorIs(t, err, context.Canceled)

	nan := func(dst []float64, _ *params.Params) {
		for i := range dst {
			dst[i] = math.NaN()
		}
	}
	_, err = Minimize(context.Background(), nan, 10, startParams())
	assert.ErrorIs(t, err, ErrNaN)
}

func TestMinimizeCancelDuringFit(t *testing.T) {
	f := newGaussFixture(0)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	residual := func(dst []float64, p *params.Params) {
		calls++
		if calls == 5 {
			cancel()
		}
		f.residual(dst, p)
	}
	_, err := Minimize(ctx, residual, len(f.x), startParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{"": MethodLeastSq, "Nelder": MethodNelder, "L-BFGS-B": MethodLBFGSB} {
		got, err := ParseMethod(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMethod("cobyla")
	assert.ErrorIs(t, err, ErrUnknownMethod)
	assert.Len(t, Methods(), 3)
}
