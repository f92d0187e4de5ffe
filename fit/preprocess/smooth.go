package preprocess

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-pesfit/dataio"
)

// Smoother applies a Gaussian convolution of fixed width to spectra of a
// fixed length. Edges are handled by normalised convolution, so a constant
// spectrum stays constant.
//
// A Smoother reuses scratch buffers and is not safe for concurrent use.
type Smoother struct {
	n       int
	half    int
	fftSize int

	kernelFFT []complex128
	weight    []float64

	plan *algofft.Plan[complex128]
	buf  []complex128
}

// NewGaussianSmoother prepares a smoother for spectra of length n. sigma is
// the kernel width in samples; the kernel is truncated at four sigma.
func NewGaussianSmoother(n int, sigma float64) (*Smoother, error) {
	if n <= 0 {
		return nil, ErrEmptyInput
	}
	if !(sigma > 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSigma, sigma)
	}

	half := int(math.Ceil(4 * sigma))
	kernelLen := 2*half + 1
	fftSize := nextPowerOf2(n + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("preprocess: failed to create FFT plan: %w", err)
	}

	s := &Smoother{
		n:         n,
		half:      half,
		fftSize:   fftSize,
		kernelFFT: make([]complex128, fftSize),
		plan:      plan,
		buf:       make([]complex128, fftSize),
	}

	padded := make([]complex128, fftSize)
	var sum float64
	for i := 0; i < kernelLen; i++ {
		d := float64(i-half) / sigma
		v := math.Exp(-0.5 * d * d)
		padded[i] = complex(v, 0)
		sum += v
	}
	for i := 0; i < kernelLen; i++ {
		padded[i] /= complex(sum, 0)
	}
	if err := plan.Forward(s.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("preprocess: failed to compute kernel FFT: %w", err)
	}

	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	s.weight = make([]float64, n)
	if err := s.convolve(s.weight, ones); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the spectrum length the smoother was built for.
func (s *Smoother) Len() int { return s.n }

// Process smooths src into dst. Both must have length Len(); they may alias.
func (s *Smoother) Process(dst, src []float64) error {
	if len(src) != s.n || len(dst) != s.n {
		return fmt.Errorf("%w: want %d, got src %d dst %d", ErrLengthMismatch, s.n, len(src), len(dst))
	}
	if err := s.convolve(dst, src); err != nil {
		return err
	}
	for i := range dst {
		dst[i] /= s.weight[i]
	}
	return nil
}

// convolve computes the "same"-mode linear convolution of src with the kernel.
func (s *Smoother) convolve(dst, src []float64) error {
	for i := range s.buf {
		s.buf[i] = 0
	}
	for i, v := range src {
		s.buf[i] = complex(v, 0)
	}
	if err := s.plan.Forward(s.buf, s.buf); err != nil {
		return fmt.Errorf("preprocess: forward FFT failed: %w", err)
	}
	for i := range s.buf {
		s.buf[i] *= s.kernelFFT[i]
	}
	if err := s.plan.Inverse(s.buf, s.buf); err != nil {
		return fmt.Errorf("preprocess: inverse FFT failed: %w", err)
	}
	for i := range dst {
		dst[i] = real(s.buf[i+s.half])
	}
	return nil
}

// Smooth is a one-shot Gaussian smoothing of a single spectrum.
func Smooth(y []float64, sigma float64) ([]float64, error) {
	s, err := NewGaussianSmoother(len(y), sigma)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(y))
	return out, s.Process(out, y)
}

// SmoothArray smooths every spectrum (last axis) of y in place.
func SmoothArray(y dataio.Array, sigma float64) error {
	s, err := NewGaussianSmoother(y.Len(), sigma)
	if err != nil {
		return err
	}
	for i := 0; i < y.Rows(); i++ {
		row := y.Row(i)
		if err := s.Process(row, row); err != nil {
			return err
		}
	}
	return nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
