package lineshape

import (
	"math"
	"math/cmplx"
)

const (
	tiny  = 1e-15
	s2    = math.Sqrt2
	s2pi  = 2.5066282746310002 // sqrt(2π)
	log2  = math.Ln2
	fwhmG = 2.3548200450309493 // 2·sqrt(2·ln2)
)

// Kind separates peaks, which carry band positions, from backgrounds.
type Kind int

const (
	KindPeak Kind = iota
	KindBackground
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPeak:
		return "peak"
	case KindBackground:
		return "background"
	default:
		return "unknown"
	}
}

// ParamSpec declares a profile parameter with its default value and hints.
type ParamSpec struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
	// Expr names a sibling parameter (base name) to mirror by default.
	Expr string
}

func spec(name string, value float64) ParamSpec {
	return ParamSpec{Name: name, Value: value, Min: math.Inf(-1), Max: math.Inf(1)}
}

func nonNegative(name string, value float64) ParamSpec {
	s := spec(name, value)
	s.Min = 0
	return s
}

// Derived is a quantity computed from fitted parameters, such as a FWHM.
type Derived struct {
	Name  string
	Value float64
}

// Profile is a single-component lineshape. Parameter slices passed to At and
// Derive follow the order of Params.
type Profile interface {
	Name() string
	Kind() Kind
	Params() []ParamSpec
	At(x float64, p []float64) float64
	Derive(p []float64) []Derived
}

func max1(v float64) float64 { return math.Max(tiny, v) }

func notZero(v float64) float64 {
	if math.Abs(v) < tiny {
		return math.Copysign(tiny, v)
	}
	return v
}

func gaussianAt(x, amp, cen, sigma float64) float64 {
	d := x - cen
	return amp / max1(s2pi*sigma) * math.Exp(-d*d/max1(2*sigma*sigma))
}

func lorentzianAt(x, amp, cen, sigma float64) float64 {
	d := (x - cen) / max1(sigma)
	return amp / (1 + d*d) / max1(math.Pi*sigma)
}

// Gaussian is amplitude/(σ√2π)·exp(−(x−center)²/2σ²).
type Gaussian struct{}

func (Gaussian) Name() string { return "Gaussian" }
func (Gaussian) Kind() Kind   { return KindPeak }

func (Gaussian) Params() []ParamSpec {
	return []ParamSpec{spec("amplitude", 1), spec("center", 0), nonNegative("sigma", 1)}
}

func (Gaussian) At(x float64, p []float64) float64 {
	return gaussianAt(x, p[0], p[1], p[2])
}

func (Gaussian) Derive(p []float64) []Derived {
	return []Derived{
		{"fwhm", fwhmG * p[2]},
		{"height", p[0] / max1(s2pi*p[2])},
	}
}

// Lorentzian is amplitude/π · σ/((x−center)²+σ²).
type Lorentzian struct{}

func (Lorentzian) Name() string { return "Lorentzian" }
func (Lorentzian) Kind() Kind   { return KindPeak }

func (Lorentzian) Params() []ParamSpec {
	return []ParamSpec{spec("amplitude", 1), spec("center", 0), nonNegative("sigma", 1)}
}

func (Lorentzian) At(x float64, p []float64) float64 {
	return lorentzianAt(x, p[0], p[1], p[2])
}

func (Lorentzian) Derive(p []float64) []Derived {
	return []Derived{
		{"fwhm", 2 * p[2]},
		{"height", p[0] / max1(math.Pi*p[2])},
	}
}

// Voigt is the convolution of a Gaussian (σ) and a Lorentzian (γ),
// evaluated through the Faddeeva function.
type Voigt struct{}

func (Voigt) Name() string { return "Voigt" }
func (Voigt) Kind() Kind   { return KindPeak }

func (Voigt) Params() []ParamSpec {
	gamma := nonNegative("gamma", 1)
	gamma.Expr = "sigma"
	return []ParamSpec{spec("amplitude", 1), spec("center", 0), nonNegative("sigma", 1), gamma}
}

func (Voigt) At(x float64, p []float64) float64 {
	amp, cen, sigma, gamma := p[0], p[1], p[2], p[3]
	z := complex(x-cen, gamma) / complex(max1(sigma*s2), 0)
	return amp * real(Faddeeva(z)) / max1(sigma*s2pi)
}

func (Voigt) Derive(p []float64) []Derived {
	amp, sigma, gamma := p[0], p[2], p[3]
	fwhm := 1.0692*gamma + math.Sqrt(0.8664*gamma*gamma+5.545083*sigma*sigma)
	w := Faddeeva(complex(0, gamma) / complex(max1(sigma*s2), 0))
	height := amp / max1(sigma*s2pi) * real(w)
	if cmplx.IsNaN(w) {
		height = math.NaN()
	}
	return []Derived{{"fwhm", fwhm}, {"height", height}}
}

// PseudoVoigt mixes a Gaussian and a Lorentzian of equal FWHM.
type PseudoVoigt struct{}

func (PseudoVoigt) Name() string { return "PseudoVoigt" }
func (PseudoVoigt) Kind() Kind   { return KindPeak }

func (PseudoVoigt) Params() []ParamSpec {
	frac := spec("fraction", 0.5)
	frac.Min, frac.Max = 0, 1
	return []ParamSpec{spec("amplitude", 1), spec("center", 0), nonNegative("sigma", 1), frac}
}

func (PseudoVoigt) At(x float64, p []float64) float64 {
	amp, cen, sigma, frac := p[0], p[1], p[2], p[3]
	sigmaG := sigma / math.Sqrt(2*log2)
	return (1-frac)*gaussianAt(x, amp, cen, sigmaG) + frac*lorentzianAt(x, amp, cen, sigma)
}

func (PseudoVoigt) Derive(p []float64) []Derived {
	amp, sigma, frac := p[0], p[2], p[3]
	height := (1-frac)*amp/max1(sigma/math.Sqrt(math.Pi/log2)) + frac*amp/max1(math.Pi*sigma)
	return []Derived{{"fwhm", 2 * sigma}, {"height", height}}
}

// Constant is a flat background c.
type Constant struct{}

func (Constant) Name() string                      { return "Constant" }
func (Constant) Kind() Kind                        { return KindBackground }
func (Constant) Params() []ParamSpec               { return []ParamSpec{spec("c", 0)} }
func (Constant) At(_ float64, p []float64) float64 { return p[0] }
func (Constant) Derive([]float64) []Derived        { return nil }

// Linear is slope·x + intercept.
type Linear struct{}

func (Linear) Name() string { return "Linear" }
func (Linear) Kind() Kind   { return KindBackground }

func (Linear) Params() []ParamSpec {
	return []ParamSpec{spec("slope", 1), spec("intercept", 0)}
}

func (Linear) At(x float64, p []float64) float64 { return p[0]*x + p[1] }
func (Linear) Derive([]float64) []Derived        { return nil }

// Quadratic is a·x² + b·x + c.
type Quadratic struct{}

func (Quadratic) Name() string { return "Quadratic" }
func (Quadratic) Kind() Kind   { return KindBackground }

func (Quadratic) Params() []ParamSpec {
	return []ParamSpec{spec("a", 0), spec("b", 0), spec("c", 0)}
}

func (Quadratic) At(x float64, p []float64) float64 { return (p[0]*x+p[1])*x + p[2] }
func (Quadratic) Derive([]float64) []Derived        { return nil }

// Exponential is amplitude·exp(−x/decay).
type Exponential struct{}

func (Exponential) Name() string { return "Exponential" }
func (Exponential) Kind() Kind   { return KindBackground }

func (Exponential) Params() []ParamSpec {
	return []ParamSpec{spec("amplitude", 1), spec("decay", 1)}
}

func (Exponential) At(x float64, p []float64) float64 {
	return p[0] * math.Exp(-x/notZero(p[1]))
}

func (Exponential) Derive([]float64) []Derived { return nil }
