package fitter

import (
	"fmt"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/internal/seq"
)

// StderrSuffix marks the uncertainty column of a parameter.
const StderrSuffix = "_stderr"

// ResultColumns returns the table columns for results of r's model:
// spec_id, then each parameter followed by its stderr, then the derived
// peak quantities.
func ResultColumns(r *ModelResult) []string {
	names := r.Params.Names()
	errs := make([]string, len(names))
	for i, n := range names {
		errs[i] = n + StderrSuffix
	}
	riffled, _ := seq.Riffle(names, errs)

	cols := append([]string{dataio.SpecIDColumn}, riffled...)
	for _, d := range r.Derived() {
		cols = append(cols, d.Name)
	}
	return cols
}

// Record flattens a result into a table row keyed by column name.
func Record(r *ModelResult, specID int) map[string]float64 {
	rec := map[string]float64{dataio.SpecIDColumn: float64(specID)}
	for _, par := range r.Params.All() {
		rec[par.Name] = par.Value
		rec[par.Name+StderrSuffix] = par.Stderr
	}
	for _, d := range r.Derived() {
		rec[d.Name] = d.Value
	}
	return rec
}

// CollectTable builds a results table sorted by spec_id. results[i] is the
// fit of spectrum ids[i].
func CollectTable(results []*ModelResult, ids []int) (*dataio.Table, error) {
	if len(results) != len(ids) {
		return nil, fmt.Errorf("%w: %d results, %d ids", ErrLengthMismatch, len(results), len(ids))
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	t := dataio.NewTable(ResultColumns(results[0])...)
	for i, r := range results {
		t.Append(Record(r, ids[i]))
	}
	if err := t.SortBy(dataio.SpecIDColumn); err != nil {
		return nil, err
	}
	return t, nil
}

// Restructure gathers the columns <pref>1_<parname> … <pref>N_<parname>
// from t and reshapes each to shape. Missing components are skipped.
func Restructure(t *dataio.Table, pref string, ncomp int, parname string, shape ...int) ([]dataio.Array, error) {
	var out []dataio.Array
	for i := 1; i <= ncomp; i++ {
		name := fmt.Sprintf("%s%d_%s", pref, i, parname)
		if !t.HasColumn(name) {
			continue
		}
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		arr, err := dataio.Vector(col).Reshape(shape...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, arr)
	}
	return out, nil
}

// RestructureFile loads a results table from path and restructures it.
func RestructureFile(path string, pref string, ncomp int, parname string, shape ...int) ([]dataio.Array, error) {
	t, err := dataio.LoadTable(path, "")
	if err != nil {
		return nil, err
	}
	return Restructure(t, pref, ncomp, parname, shape...)
}
