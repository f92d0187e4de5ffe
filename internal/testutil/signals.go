package testutil

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Peak describes one Gaussian band in a synthetic spectrum.
type Peak struct {
	Amplitude float64
	Center    float64
	Sigma     float64
}

// GaussianSpectrum evaluates the sum of area-normalised Gaussian peaks plus
// a constant offset on x.
func GaussianSpectrum(x []float64, offset float64, peaks ...Peak) []float64 {
	out := make([]float64, len(x))
	for i, xi := range x {
		v := offset
		for _, p := range peaks {
			d := (xi - p.Center) / p.Sigma
			v += p.Amplitude / (p.Sigma * math.Sqrt(2*math.Pi)) * math.Exp(-0.5*d*d)
		}
		out[i] = v
	}
	return out
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude) with
// a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// AddNoise returns y with deterministic noise added.
func AddNoise(y []float64, seed int64, amplitude float64) []float64 {
	out := DeterministicNoise(seed, amplitude, len(y))
	floats.Add(out, y)
	return out
}

// DC generates a constant-valued slice.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
