package fitter

import (
	"github.com/cwbudde/algo-pesfit/fit/params"
)

// VarSetter merges inits in order and applies them to p. Later inits win
// per field.
func VarSetter(p *params.Params, inits ...params.Inits) error {
	if len(inits) == 0 {
		return nil
	}
	return params.Merge(inits...).ApplyTo(p)
}

// InitGenerator builds per-component inits for parname: component i takes
// the settings keys[j] = values[i][j].
func InitGenerator(parname string, keys, prefixes []string, values [][]float64) (params.Inits, error) {
	return params.Generate(parname, keys, prefixes, values)
}
