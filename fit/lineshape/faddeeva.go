package lineshape

import (
	"math"
	"math/cmplx"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// faddeevaTerms is the number of terms N of Weideman's rational expansion.
const faddeevaTerms = 32

var (
	faddeevaOnce  sync.Once
	faddeevaCoeff []float64 // a_1 … a_N
	faddeevaL     float64
	faddeevaErr   error
)

// initFaddeeva computes the expansion coefficients as the discrete Fourier
// transform of exp(-t²)(L²+t²) sampled on the mapped grid t = L·tan(θ/2).
func initFaddeeva() {
	n := faddeevaTerms
	m := 2 * n
	size := 2 * m
	l := math.Sqrt(float64(n) / math.Sqrt2)

	// f[0] = 0, f[1+j] for k = -M+1 … M-1.
	f := make([]float64, size)
	for j := 0; j < size-1; j++ {
		k := float64(j - m + 1)
		theta := k * math.Pi / float64(m)
		t := l * math.Tan(theta/2)
		f[j+1] = math.Exp(-t*t) * (l*l + t*t)
	}

	// fftshift
	in := make([]complex128, size)
	for i := range in {
		in[i] = complex(f[(i+size/2)%size], 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		faddeevaErr = err
		return
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		faddeevaErr = err
		return
	}

	faddeevaCoeff = make([]float64, n)
	for j := 0; j < n; j++ {
		faddeevaCoeff[j] = real(out[j+1]) / float64(size)
	}
	faddeevaL = l
}

// Faddeeva evaluates w(z) = exp(-z²)·erfc(-iz).
func Faddeeva(z complex128) complex128 {
	faddeevaOnce.Do(initFaddeeva)
	if faddeevaErr != nil {
		return cmplx.NaN()
	}
	if imag(z) < 0 {
		// w(z) = 2·exp(-z²) − w(−z)
		return 2*cmplx.Exp(-z*z) - faddeevaUpper(-z)
	}
	return faddeevaUpper(z)
}

func faddeevaUpper(z complex128) complex128 {
	l := complex(faddeevaL, 0)
	iz := complex(0, 1) * z
	denom := l - iz
	zz := (l + iz) / denom

	// Horner, highest power first: a_N·Z^(N-1) + … + a_1.
	var p complex128
	for j := len(faddeevaCoeff) - 1; j >= 0; j-- {
		p = p*zz + complex(faddeevaCoeff[j], 0)
	}
	return 2*p/(denom*denom) + complex(1/math.SqrtPi, 0)/denom
}
