package minimize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/algo-pesfit/fit/params"
)

func TestBoundRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		min, max float64
		values   []float64
	}{
		{"unbounded", math.Inf(-1), math.Inf(1), []float64{-3, 0, 2.5}},
		{"both", -1, 2, []float64{-1, -0.3, 0, 1.9, 2}},
		{"lower", 0, math.Inf(1), []float64{0, 0.01, 3}},
		{"upper", math.Inf(-1), 5, []float64{-10, 4.99, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			par := params.New("p", 0)
			par.Min, par.Max = tc.min, tc.max
			b := newBound(&par)
			for _, v := range tc.values {
				assert.InDelta(t, v, b.external(b.internal(v)), 1e-12)
			}
		})
	}
}

func TestBoundClipsAndStaysInside(t *testing.T) {
	par := params.New("p", 0)
	par.Min, par.Max = 0, 1
	b := newBound(&par)
	assert.InDelta(t, 1, b.external(b.internal(7)), 1e-12)
	for _, u := range []float64{-100, -1, 0, 3, 1e6} {
		x := b.external(u)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, 1.0)
	}
}

func TestBoundScaleMatchesDerivative(t *testing.T) {
	for _, lim := range [][2]float64{{-1, 2}, {0, math.Inf(1)}, {math.Inf(-1), 5}} {
		par := params.New("p", 0)
		par.Min, par.Max = lim[0], lim[1]
		b := newBound(&par)
		u := 0.7
		h := 1e-6
		num := (b.external(u+h) - b.external(u-h)) / (2 * h)
		assert.InDelta(t, num, b.scale(u), 1e-6)
	}
}
