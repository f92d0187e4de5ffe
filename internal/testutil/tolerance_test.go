package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.1, 2.95})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, d, 1e-15)

	d, err = MaxAbsDiff(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = MaxAbsDiff([]float64{1}, []float64{1, 2})
	assert.Error(t, err)
}

func TestArgMaxDiff(t *testing.T) {
	assert.Equal(t, 2, argMaxDiff([]float64{0, 1, 5}, []float64{0.1, 1, 4}))
}

func TestRequireHelpersPass(t *testing.T) {
	y := GaussianSpectrum(Linspace(-1, 1, 41), 0.1, Peak{Amplitude: 1, Sigma: 0.2})
	RequireFinite(t, y)
	RequireSliceNearlyEqual(t, y, AddNoise(y, 1, 1e-9), 1e-8)
}
