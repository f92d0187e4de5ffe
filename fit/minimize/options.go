package minimize

import "strings"

// Method selects the optimisation algorithm.
type Method string

const (
	MethodLeastSq Method = "leastsq"
	MethodNelder  Method = "nelder"
	MethodLBFGSB  Method = "lbfgsb"
)

// Methods lists the supported method names.
func Methods() []Method {
	return []Method{MethodLeastSq, MethodNelder, MethodLBFGSB}
}

// ParseMethod resolves a method name case-insensitively. The empty string
// selects MethodLeastSq.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "leastsq", "lm", "levenberg-marquardt":
		return MethodLeastSq, nil
	case "nelder", "nelder-mead":
		return MethodNelder, nil
	case "lbfgsb", "lbfgs", "l-bfgs-b":
		return MethodLBFGSB, nil
	}
	return "", unknownMethod(name)
}

// Defaults for WithMaxIterations and WithTolerance.
const (
	DefaultMaxIterations = 1000
	DefaultTolerance     = 1e-8
)

type config struct {
	method     Method
	maxIter    int
	tol        float64
	scaleCovar bool
	data       []float64
}

func defaultConfig() config {
	return config{
		method:     MethodLeastSq,
		maxIter:    DefaultMaxIterations,
		tol:        DefaultTolerance,
		scaleCovar: true,
	}
}

// Option configures Minimize.
type Option func(*config)

// WithMethod selects the algorithm.
func WithMethod(m Method) Option {
	return func(cfg *config) {
		if m != "" {
			cfg.method = m
		}
	}
}

// WithMaxIterations bounds the number of optimiser iterations.
func WithMaxIterations(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxIter = n
		}
	}
}

// WithTolerance sets the convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(cfg *config) {
		if tol > 0 {
			cfg.tol = tol
		}
	}
}

// WithScaleCovar toggles scaling of the covariance by the reduced
// chi-square. It is on by default.
func WithScaleCovar(scale bool) Option {
	return func(cfg *config) {
		cfg.scaleCovar = scale
	}
}

// WithData supplies the fitted data so that Result.Rsquared can be
// computed. The residual is assumed to be data − model.
func WithData(y []float64) Option {
	return func(cfg *config) {
		cfg.data = y
	}
}
