package metrics

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/lineshape"
)

// GroupMetrics evaluates a set of result tables, each holding nband peaks.
type GroupMetrics struct {
	Files []string
	NBand int
	// Table names the SQLite table for .db files; empty means the default.
	Table string

	results []dataio.Array
}

// NewGroupMetrics returns a calculator for the given result files.
func NewGroupMetrics(nband int, files ...string) (*GroupMetrics, error) {
	if nband <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBandNum, nband)
	}
	return &GroupMetrics{Files: files, NBand: nband}, nil
}

// Len returns the number of result files.
func (g *GroupMetrics) Len() int { return len(g.Files) }

// LoadTable extracts lp1_<varname> … lpN_<varname> from t, each reshaped to
// shape, as an nband × shape... array.
func (g *GroupMetrics) LoadTable(t *dataio.Table, varname string, shape ...int) (dataio.Array, error) {
	if len(shape) == 0 {
		shape = []int{t.Len()}
	}
	out := dataio.NewArray(append([]int{g.NBand}, shape...)...)
	per := out.Size() / g.NBand
	for i := 1; i <= g.NBand; i++ {
		name := fmt.Sprintf("%s%d_%s", lineshape.PeakPrefix, i, varname)
		col, err := t.Column(name)
		if err != nil {
			return dataio.Array{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		if len(col) != per {
			return dataio.Array{}, fmt.Errorf("%w: %s has %d values for shape %v", ErrShapeMismatch, name, len(col), shape)
		}
		copy(out.Data[(i-1)*per:], col)
	}
	return out, nil
}

// Load reads one result file.
func (g *GroupMetrics) Load(path, varname string, shape ...int) (dataio.Array, error) {
	t, err := dataio.LoadTable(path, g.Table)
	if err != nil {
		return dataio.Array{}, err
	}
	arr, err := g.LoadTable(t, varname, shape...)
	if err != nil {
		return dataio.Array{}, fmt.Errorf("%s: %w", path, err)
	}
	return arr, nil
}

// LoadAll reads every file, replacing previously loaded data.
func (g *GroupMetrics) LoadAll(varname string, shape ...int) error {
	res := make([]dataio.Array, 0, len(g.Files))
	for _, f := range g.Files {
		arr, err := g.Load(f, varname, shape...)
		if err != nil {
			return err
		}
		slog.Debug("loaded fit results", "file", f, "var", varname, "shape", arr.Shape)
		res = append(res, arr)
	}
	g.results = res
	return nil
}

// Results returns the loaded arrays, one per file.
func (g *GroupMetrics) Results() []dataio.Array { return g.results }

// GroupRMSE returns RMSE for every loaded result.
func (g *GroupMetrics) GroupRMSE(truth dataio.Array) ([]float64, error) {
	return g.each(truth, RMSE)
}

// GroupInstability returns Instability for every loaded result.
func (g *GroupMetrics) GroupInstability(truth dataio.Array) ([]float64, error) {
	return g.each(truth, Instability)
}

func (g *GroupMetrics) each(truth dataio.Array, metric func(result, truth dataio.Array) (float64, error)) ([]float64, error) {
	if len(g.results) == 0 {
		return nil, ErrNoData
	}
	out := make([]float64, len(g.results))
	for i, r := range g.results {
		v, err := metric(r, truth)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
