package lineshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/internal/testutil"
)

func TestEvalSumsComponents(t *testing.T) {
	m, err := NewMultipeakModel(Gaussian{}, 2, WithBackground(Constant{}))
	require.NoError(t, err)
	p := m.MakeParams()
	require.NoError(t, p.Set("lp1_center", params.Setting{Value: params.Float(-0.5)}))
	require.NoError(t, p.Set("lp2_center", params.Setting{Value: params.Float(0.5)}))
	require.NoError(t, p.Set("bg_c", params.Setting{Value: params.Float(0.2)}))

	x := testutil.Linspace(-2, 2, 41)
	got := make([]float64, len(x))
	m.Eval(got, x, p)

	want := testutil.GaussianSpectrum(x, 0.2,
		testutil.Peak{Amplitude: 1, Center: -0.5, Sigma: 1},
		testutil.Peak{Amplitude: 1, Center: 0.5, Sigma: 1})
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	curves := m.EvalComponents(x, p)
	require.Len(t, curves, 3)
	assert.Equal(t, "bg_", curves[2].Prefix)
	sum := make([]float64, len(x))
	for _, c := range curves {
		for i, v := range c.Values {
			sum[i] += v
		}
	}
	testutil.RequireSliceNearlyEqual(t, sum, got, 1e-12)
}

func TestEvalMultiplies(t *testing.T) {
	m, err := NewMultipeakModel(Gaussian{}, 1, WithBackground(Constant{}), WithOperator(OpMul))
	require.NoError(t, err)
	assert.Equal(t, OpMul, m.Op())
	p := m.MakeParams()
	require.NoError(t, p.Set("bg_c", params.Setting{Value: params.Float(3)}))

	x := []float64{-1, 0, 1}
	got := make([]float64, 3)
	m.Eval(got, x, p)
	for i, xv := range x {
		assert.InDelta(t, 3*Gaussian{}.At(xv, []float64{1, 0, 1}), got[i], 1e-14)
	}
	assert.Contains(t, m.String(), " * ")
}

func TestCustomPrefixAndComposite(t *testing.T) {
	m, err := NewMultipeakModel(Lorentzian{}, 2, WithPeakPrefix("band"))
	require.NoError(t, err)
	assert.Equal(t, []string{"band1_", "band2_"}, m.Prefixes())

	comps := m.Components()
	comps = append(comps, Component{Prefix: "band1_", Profile: Gaussian{}})
	_, err = NewCompositeModel(comps, OpAdd)
	assert.ErrorIs(t, err, ErrDuplicatePrefix)

	_, err = NewCompositeModel(nil, OpAdd)
	assert.ErrorIs(t, err, ErrNoComponents)
}

func TestModelDerive(t *testing.T) {
	m, err := NewMultipeakModel(Gaussian{}, 2, WithBackground(Linear{}))
	require.NoError(t, err)
	d := m.Derive(m.MakeParams())
	names := make([]string, len(d))
	for i, v := range d {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"lp1_fwhm", "lp1_height", "lp2_fwhm", "lp2_height"}, names)
}
