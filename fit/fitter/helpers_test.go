package fitter

import (
	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/lineshape"
	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/internal/testutil"
)

// bandCenters returns the two true band positions at pixel (r, c).
func bandCenters(r, c int) (float64, float64) {
	return -1 + 0.02*float64(r) + 0.01*float64(c), 0.2 - 0.01*float64(r) + 0.02*float64(c)
}

func spectrumAt(x []float64, r, c int) []float64 {
	c1, c2 := bandCenters(r, c)
	return testutil.GaussianSpectrum(x, 0,
		testutil.Peak{Amplitude: 1, Center: c1, Sigma: 0.15},
		testutil.Peak{Amplitude: 0.6, Center: c2, Sigma: 0.15})
}

// synthPatch returns energies, a rows × cols × n patch and the band
// positions as 2 × rows·cols.
func synthPatch(rows, cols int) ([]float64, dataio.Array, dataio.Array) {
	x := testutil.Linspace(-2, 1, 151)
	y := dataio.NewArray(rows, cols, len(x))
	bands := dataio.NewArray(2, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			n := r*cols + c
			copy(y.Row(n), spectrumAt(x, r, c))
			c1, c2 := bandCenters(r, c)
			bands.Data[n] = c1
			bands.Data[rows*cols+n] = c2
		}
	}
	return x, y, bands
}

func gaussModel() *lineshape.MultipeakModel {
	m, err := lineshape.NewMultipeakModel(lineshape.Gaussian{}, 2)
	if err != nil {
		panic(err)
	}
	return m
}

// widthInits starts both peaks at a moderate width.
func widthInits() params.Inits {
	s := params.Setting{Value: params.Float(0.2), Min: params.Float(0.01), Max: params.Float(1)}
	return params.Inits{
		"lp1_": {"sigma": s},
		"lp2_": {"sigma": s},
	}
}
