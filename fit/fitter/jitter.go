package fitter

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/cwbudde/algo-pesfit/fit/params"
)

type fitFunc func(ctx context.Context, p *params.Params) (*ModelResult, error)

// RandomVarShift refits with random shifts added to the initial values of
// cfg.ParNames until the cfg.Attr statistic of the best fit drops below
// cfg.Thresh or every shift has been tried once. Each shift is applied to
// the values in p, not on top of earlier shifts. The best fit seen,
// including current, is returned.
func RandomVarShift(ctx context.Context, current *ModelResult, p *params.Params, fit fitFunc, cfg JitterConfig, rng *rand.Rand, logger *slog.Logger) (*ModelResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	best := current
	bestVal, err := current.Attr(cfg.Attr)
	if err != nil {
		return nil, err
	}

	base := make(map[string]float64, len(cfg.ParNames))
	for _, name := range cfg.ParNames {
		base[name] = p.Value(name)
	}

	remaining := append([]float64(nil), cfg.Shifts...)
	for round := 1; bestVal >= cfg.Thresh && len(remaining) > 0; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug("fit criterion not met, jittering", "attr", cfg.Attr, "value", bestVal, "round", round)

		idx := rng.Intn(len(remaining))
		shift := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)

		trial := p.Clone()
		for _, name := range cfg.ParNames {
			if err := trial.Set(name, params.Setting{Value: params.Float(base[name] + shift)}); err != nil {
				return nil, err
			}
		}
		trial.Resolve()

		res, err := fit(ctx, trial)
		if err != nil {
			return nil, err
		}
		val, err := res.Attr(cfg.Attr)
		if err != nil {
			return nil, err
		}
		if val <= bestVal {
			best, bestVal = res, val
		}
	}
	return best, nil
}
