package fitter

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-pesfit/fit/lineshape"
	"github.com/cwbudde/algo-pesfit/fit/minimize"
	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/fit/preprocess"
)

// PointwiseFit fits one line spectrum y sampled at energies x.
func PointwiseFit(ctx context.Context, x, y []float64, opts ...FitOption) (*ModelResult, error) {
	cfg := ApplyFitOptions(opts...)
	model, err := cfg.buildModel()
	if err != nil {
		return nil, err
	}
	return pointwise(ctx, model, x, y, cfg)
}

func pointwise(ctx context.Context, model *lineshape.MultipeakModel, x, y []float64, cfg FitConfig) (*ModelResult, error) {
	if len(x) == 0 {
		return nil, ErrEmptyData
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d energies, %d intensities", ErrLengthMismatch, len(x), len(y))
	}

	var pars *params.Params
	if cfg.Params != nil {
		pars = cfg.Params.Clone()
	} else {
		pars = model.MakeParams()
	}
	if err := VarSetter(pars, cfg.Inits...); err != nil {
		return nil, err
	}
	pars.Resolve()

	data := make([]float64, len(y))
	norm := 1.0
	if cfg.YNorm {
		if peak := preprocess.Normalize(data, y); peak > 0 {
			norm = peak
		}
	} else {
		copy(data, y)
	}

	modelBuf := make([]float64, len(x))
	residual := func(dst []float64, p *params.Params) {
		model.Eval(modelBuf, x, p)
		for i := range dst {
			dst[i] = data[i] - modelBuf[i]
		}
	}
	mopts := append(cfg.minimizeOptions(), minimize.WithData(data))
	fit := func(ctx context.Context, p *params.Params) (*ModelResult, error) {
		res, err := minimize.Minimize(ctx, residual, len(x), p, mopts...)
		if err != nil {
			return nil, err
		}
		return newModelResult(model, x, data, norm, p, res), nil
	}

	out, err := fit(ctx, pars)
	if err != nil {
		return nil, err
	}
	if !cfg.Jitter.Enabled {
		return out, nil
	}

	jc := cfg.Jitter
	if len(jc.ParNames) == 0 {
		for _, prefix := range model.PeakPrefixes() {
			jc.ParNames = append(jc.ParNames, prefix+"center")
		}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return RandomVarShift(ctx, out, pars, fit, jc, rng, cfg.logger())
}
