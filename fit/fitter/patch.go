package fitter

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/lineshape"
	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/fit/preprocess"
)

// patch holds the data and initialisation shared by the patch fitters.
type patch struct {
	x     []float64
	y     dataio.Array
	model *lineshape.MultipeakModel
	fit   []FitOption
	log   *slog.Logger

	xvals    []float64
	spectra  dataio.Array
	persist  params.Inits
	bands    dataio.Array
	initsSet bool

	results []*ModelResult
	table   *dataio.Table
}

// promote views 1-D and 2-D data as a 3-D rows × cols × energy patch.
func promote(y dataio.Array) (dataio.Array, error) {
	switch y.NDim() {
	case 1:
		return y.Reshape(1, 1, y.Shape[0])
	case 2:
		return y.Reshape(1, y.Shape[0], y.Shape[1])
	case 3:
		return y, nil
	}
	return dataio.Array{}, fmt.Errorf("%w: %d dimensions", ErrShape, y.NDim())
}

func newPatch(x []float64, y dataio.Array, opts []FitOption) (patch, error) {
	if len(x) == 0 || y.Size() == 0 {
		return patch{}, ErrEmptyData
	}
	y3, err := promote(y)
	if err != nil {
		return patch{}, err
	}
	if y3.Len() != len(x) {
		return patch{}, fmt.Errorf("%w: %d energies, spectra of length %d", ErrLengthMismatch, len(x), y3.Len())
	}
	cfg := ApplyFitOptions(opts...)
	model, err := cfg.buildModel()
	if err != nil {
		return patch{}, err
	}
	return patch{
		x:     x,
		y:     y3,
		model: model,
		fit:   opts,
		log:   cfg.logger(),
	}, nil
}

// Model returns the lineshape model shared by all spectra.
func (p *patch) Model() *lineshape.MultipeakModel { return p.model }

// PatchShape returns rows, columns and energy length of the patch.
func (p *patch) PatchShape() (rows, cols, elen int) {
	return p.y.Shape[0], p.y.Shape[1], p.y.Shape[2]
}

// NSpec returns the number of line spectra in the patch.
func (p *patch) NSpec() int { return p.y.Shape[0] * p.y.Shape[1] }

// XVals returns the energies within the selected range.
func (p *patch) XVals() []float64 { return p.xvals }

// Results returns the fit of each spectrum in spec_id order.
func (p *patch) Results() []*ModelResult { return p.results }

// Table returns the collected fit results, or nil before fitting.
func (p *patch) Table() *dataio.Table { return p.table }

// SetInits sets the persistent initial conditions, the per-spectrum band
// positions and the energy range. bands is nband × nspec or
// nband × rows × cols and may be empty; offset is added to every band
// position.
func (p *patch) SetInits(persist params.Inits, bands dataio.Array, r preprocess.Range, offset float64) error {
	xvals, cropped, err := preprocess.Crop(p.x, p.y, r)
	if err != nil {
		return err
	}
	spectra, err := cropped.Reshape(p.NSpec(), len(xvals))
	if err != nil {
		return err
	}

	var b dataio.Array
	if bands.Size() > 0 {
		switch bands.NDim() {
		case 2:
			b = bands.Clone()
		case 3:
			b, err = bands.Clone().Reshape(bands.Shape[0], bands.Shape[1]*bands.Shape[2])
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: band initialisation has %d dimensions", ErrShape, bands.NDim())
		}
		for i := range b.Data {
			b.Data[i] += offset
		}
	}

	if persist == nil {
		persist = params.Inits{}
	}
	p.xvals = xvals
	p.spectra = spectra
	p.persist = persist
	p.bands = b
	p.initsSet = true
	return nil
}

// LoadSpecData replaces the patch data with the array stored under key.
func (p *patch) LoadSpecData(path, key string) error {
	arrs, err := dataio.LoadArrays(path, key)
	if err != nil {
		return err
	}
	y, err := promote(arrs[key])
	if err != nil {
		return err
	}
	if y.Len() != len(p.x) {
		return fmt.Errorf("%w: %d energies, spectra of length %d", ErrLengthMismatch, len(p.x), y.Len())
	}
	p.y = y
	p.initsSet = false
	return nil
}

// LoadFitting reads a previously saved results table.
func (p *patch) LoadFitting(path string) error {
	t, err := dataio.LoadTable(path, "")
	if err != nil {
		return err
	}
	p.table = t
	return nil
}

// Save writes the results table in the format implied by the extension.
func (p *patch) Save(path string) error {
	if p.table == nil {
		return ErrNoResults
	}
	return dataio.SaveTable(path, p.table, "")
}

// ToDict reshapes every result column to shape.
func (p *patch) ToDict(shape ...int) (map[string]dataio.Array, error) {
	if p.table == nil {
		return nil, ErrNoResults
	}
	return p.table.ToDict(shape...)
}

// bandPrefixes returns the model prefixes that receive band positions.
func (p *patch) bandPrefixes(exclude []string) []string {
	var out []string
	for _, prefix := range p.model.Prefixes() {
		if !slices.Contains(exclude, prefix) {
			out = append(out, prefix)
		}
	}
	return out
}

// prepare validates cfg against the patch and returns the number of
// spectra to fit and the prefixes receiving band positions.
func (p *patch) prepare(cfg RunConfig) (int, []string, error) {
	if !p.initsSet {
		return 0, nil, ErrNoInits
	}
	nspec := p.NSpec()
	if cfg.NSpec > 0 {
		if cfg.NSpec > nspec {
			return 0, nil, fmt.Errorf("%w: nspec %d exceeds %d spectra", ErrIndex, cfg.NSpec, nspec)
		}
		nspec = cfg.NSpec
	}
	if !cfg.IncludeVary {
		return nspec, nil, nil
	}

	prefixes := p.bandPrefixes(cfg.PrefExclude)
	if p.bands.Size() == 0 {
		return 0, nil, fmt.Errorf("%w: none given", ErrBandInits)
	}
	if p.bands.Shape[0] < len(prefixes) || p.bands.Shape[1] < nspec {
		return 0, nil, fmt.Errorf("%w: have %v, need %d × %d", ErrBandInits, p.bands.Shape, len(prefixes), nspec)
	}
	if len(cfg.VarKeys) == 0 || len(cfg.OtherInitVals) != len(cfg.VarKeys)-1 {
		return 0, nil, fmt.Errorf("%w: %d varkeys, %d other values", ErrLengthMismatch, len(cfg.VarKeys), len(cfg.OtherInitVals))
	}
	return nspec, prefixes, nil
}

// spectrumInits builds the band center inits for spectrum n.
func (p *patch) spectrumInits(n int, cfg RunConfig, prefixes []string) (params.Inits, error) {
	values := make([][]float64, len(prefixes))
	for i := range prefixes {
		values[i] = append([]float64{p.bands.At(i, n)}, cfg.OtherInitVals...)
	}
	return InitGenerator("center", cfg.VarKeys, prefixes, values)
}

// fitOne fits spectrum n.
func (p *patch) fitOne(ctx context.Context, n int, cfg RunConfig, prefixes []string) (*ModelResult, error) {
	inits := []params.Inits{p.persist}
	if cfg.IncludeVary {
		vary, err := p.spectrumInits(n, cfg, prefixes)
		if err != nil {
			return nil, err
		}
		inits = append(inits, vary)
	}

	opts := make([]FitOption, 0, len(p.fit)+len(cfg.Fit)+3)
	opts = append(opts, p.fit...)
	opts = append(opts, cfg.Fit...)
	fc := ApplyFitOptions(opts...)
	fc.Inits = append(slices.Clone(fc.Inits), inits...)
	fc.Seed += int64(n)

	res, err := pointwise(ctx, p.model, p.xvals, p.spectra.Row(n), fc)
	if err != nil {
		return nil, fmt.Errorf("spectrum %d: %w", n, err)
	}
	return res, nil
}

func (p *patch) finish(results []*ModelResult) error {
	ids := make([]int, len(results))
	for i := range ids {
		ids[i] = i
	}
	t, err := CollectTable(results, ids)
	if err != nil {
		return err
	}
	p.results = results
	p.table = t
	return nil
}

// PatchFitter fits every line spectrum of a data patch in sequence.
type PatchFitter struct {
	patch
}

// NewPatchFitter prepares a fitter for y, whose last axis is energy x.
// y may be 1-D, 2-D or 3-D. The model comes from WithModel or WithPeaks;
// all options are also applied to each spectrum fit.
func NewPatchFitter(x []float64, y dataio.Array, opts ...FitOption) (*PatchFitter, error) {
	p, err := newPatch(x, y, opts)
	if err != nil {
		return nil, err
	}
	return &PatchFitter{patch: p}, nil
}

// SequentialFit fits the first nspec spectra one after another.
func (f *PatchFitter) SequentialFit(ctx context.Context, opts ...RunOption) error {
	cfg := ApplyRunOptions(opts...)
	nspec, prefixes, err := f.prepare(cfg)
	if err != nil {
		return err
	}

	results := make([]*ModelResult, nspec)
	for n := 0; n < nspec; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := f.fitOne(ctx, n, cfg, prefixes)
		if err != nil {
			return err
		}
		results[n] = res
		f.log.Debug("spectrum fitted", "spec_id", n, "chisqr", res.Chisqr, "nfev", res.Nfev)
		if cfg.Progress != nil {
			cfg.Progress(n+1, nspec)
		}
	}
	return f.finish(results)
}

// FitSpectrum fits spectrum n alone with the run settings of opts. NSpec
// is ignored.
func (p *patch) FitSpectrum(ctx context.Context, n int, opts ...RunOption) (*ModelResult, error) {
	cfg := ApplyRunOptions(opts...)
	cfg.NSpec = 0
	nspec, prefixes, err := p.prepare(cfg)
	if err != nil {
		return nil, err
	}
	if n < 0 || n >= nspec {
		return nil, fmt.Errorf("%w: spectrum %d of %d", ErrIndex, n, nspec)
	}
	return p.fitOne(ctx, n, cfg, prefixes)
}
