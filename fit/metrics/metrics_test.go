package metrics

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pesfit/dataio"
)

func resultTable(shift float64) *dataio.Table {
	t := dataio.NewTable(dataio.SpecIDColumn, "lp1_center", "lp2_center")
	for n := 0; n < 4; n++ {
		_ = t.AppendRow([]float64{float64(n), -1 + 0.1*float64(n) + shift, 0.5 - shift*float64(n)})
	}
	return t
}

func truthArray() dataio.Array {
	a := dataio.NewArray(2, 2, 2)
	for n := 0; n < 4; n++ {
		a.Data[n] = -1 + 0.1*float64(n)
		a.Data[4+n] = 0.5
	}
	return a
}

func TestRMSEAndInstability(t *testing.T) {
	truth := dataio.Vector([]float64{0, 0, 0, 0})
	res := dataio.Vector([]float64{1, 1, 1, 1})

	rmse, err := RMSE(res, truth)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, rmse, 1e-15)

	instab, err := Instability(res, truth)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, instab, 1e-15)

	res = dataio.Vector([]float64{1, -1, 1, -1})
	instab, err = Instability(res, truth)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, instab, 1e-15)

	_, err = RMSE(dataio.Vector([]float64{1}), truth)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Instability(dataio.Array{}, truth)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDiffMomentsMatchesTwoPass(t *testing.T) {
	a := []float64{3.2, -1.5, 7.7, 0.4, 2.2, 9.1}
	b := []float64{1, 1, 1, 1, 1, 1}

	var mean float64
	for i := range a {
		mean += a[i] - b[i]
	}
	mean /= float64(len(a))
	var want float64
	for i := range a {
		d := a[i] - b[i] - mean
		want += d * d
	}
	want /= float64(len(a))

	gotMean, got := diffMoments(a, b)
	assert.InDelta(t, mean, gotMean, 1e-12)
	assert.InDelta(t, want, got, 1e-12)
}

func TestGroupMetrics(t *testing.T) {
	dir := t.TempDir()
	exact := filepath.Join(dir, "exact.csv")
	shifted := filepath.Join(dir, "shifted.db")
	require.NoError(t, dataio.SaveTable(exact, resultTable(0), ""))
	require.NoError(t, dataio.SaveTable(shifted, resultTable(0.1), ""))

	g, err := NewGroupMetrics(2, exact, shifted)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())

	_, err = g.GroupRMSE(truthArray())
	assert.ErrorIs(t, err, ErrNoData)

	require.NoError(t, g.LoadAll("center", 2, 2))
	require.Len(t, g.Results(), 2)
	assert.Equal(t, []int{2, 2, 2}, g.Results()[0].Shape)

	rmse, err := g.GroupRMSE(truthArray())
	require.NoError(t, err)
	assert.InDelta(t, 0, rmse[0], 1e-12)
	// Band 1 is off by 0.1 everywhere, band 2 by 0, 0.1, 0.2, 0.3.
	assert.InDelta(t, math.Sqrt(4*0.01+0.14), rmse[1], 1e-12)

	instab, err := g.GroupInstability(truthArray())
	require.NoError(t, err)
	assert.InDelta(t, 0, instab[0], 1e-12)
	assert.Greater(t, instab[1], 0.0)
}

func TestGroupMetricsErrors(t *testing.T) {
	_, err := NewGroupMetrics(0)
	assert.ErrorIs(t, err, ErrInvalidBandNum)

	g, err := NewGroupMetrics(3)
	require.NoError(t, err)
	_, err = g.LoadTable(resultTable(0), "center", 2, 2)
	assert.ErrorIs(t, err, ErrMissingColumn)

	g.NBand = 2
	_, err = g.LoadTable(resultTable(0), "center", 3)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	arr, err := g.LoadTable(resultTable(0), "center")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, arr.Shape)

	g.Files = []string{filepath.Join(t.TempDir(), "missing.csv")}
	assert.Error(t, g.LoadAll("center"))
}
