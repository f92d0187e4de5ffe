package fitter

import (
	"github.com/cwbudde/algo-pesfit/fit/lineshape"
	"github.com/cwbudde/algo-pesfit/fit/minimize"
	"github.com/cwbudde/algo-pesfit/fit/params"
)

// ModelResult is the outcome of fitting a model to one spectrum.
type ModelResult struct {
	*minimize.Result

	Model *lineshape.MultipeakModel
	X     []float64
	// Data is the fitted spectrum, after normalisation if enabled.
	Data []float64
	// Norm is the factor Data was divided by (1 without normalisation).
	Norm    float64
	BestFit []float64
	InitFit []float64
}

func newModelResult(m *lineshape.MultipeakModel, x, data []float64, norm float64, init *params.Params, res *minimize.Result) *ModelResult {
	out := &ModelResult{
		Result:  res,
		Model:   m,
		X:       x,
		Data:    data,
		Norm:    norm,
		BestFit: make([]float64, len(x)),
		InitFit: make([]float64, len(x)),
	}
	m.Eval(out.BestFit, x, res.Params)
	m.Eval(out.InitFit, x, init)
	return out
}

// BestValues returns the fitted parameter values by name.
func (r *ModelResult) BestValues() map[string]float64 {
	return r.Params.Values()
}

// EvalComponents evaluates each model component with the fitted values.
func (r *ModelResult) EvalComponents() []lineshape.ComponentCurve {
	return r.Model.EvalComponents(r.X, r.Params)
}

// Derived returns derived quantities such as FWHM and height per peak.
func (r *ModelResult) Derived() []lineshape.Derived {
	return r.Model.Derive(r.Params)
}
