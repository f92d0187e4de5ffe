package fitter

import (
	"log/slog"
	"runtime"

	"github.com/cwbudde/algo-pesfit/fit/lineshape"
	"github.com/cwbudde/algo-pesfit/fit/minimize"
	"github.com/cwbudde/algo-pesfit/fit/params"
)

// FitConfig controls a single spectrum fit.
type FitConfig struct {
	Model      *lineshape.MultipeakModel
	Peaks      map[string]int
	Background string

	Params *params.Params
	Inits  []params.Inits

	// YNorm divides the spectrum by its maximum before fitting.
	YNorm   bool
	Method  minimize.Method
	MaxIter int
	Tol     float64

	Jitter JitterConfig
	Seed   int64
	Logger *slog.Logger
}

// JitterConfig controls random restarts of a fit whose quality criterion
// is not met.
type JitterConfig struct {
	Enabled bool
	// Shifts are drawn without replacement and added to ParNames.
	Shifts []float64
	// ParNames defaults to the centers of all peak components.
	ParNames []string
	// Attr is the result statistic compared against Thresh.
	Attr   string
	Thresh float64
}

// DefaultShifts are the jitter shifts 0.1, 0.2, …, 1.0.
func DefaultShifts() []float64 {
	out := make([]float64, 10)
	for i := range out {
		out[i] = 0.1 * float64(i+1)
	}
	return out
}

// FitOption mutates a FitConfig.
type FitOption func(*FitConfig)

// DefaultFitConfig returns a Voigt×2 model without background, normalised
// intensities, Levenberg–Marquardt and jitter disabled.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		Peaks:      map[string]int{"Voigt": 2},
		Background: "None",
		YNorm:      true,
		Method:     minimize.MethodLeastSq,
		Jitter: JitterConfig{
			Shifts: DefaultShifts(),
			Attr:   "chisqr",
			Thresh: 0.85,
		},
		Seed: 1,
	}
}

// ApplyFitOptions applies zero or more options to the default config.
func ApplyFitOptions(opts ...FitOption) FitConfig {
	cfg := DefaultFitConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithModel fits with an existing model.
func WithModel(m *lineshape.MultipeakModel) FitOption {
	return func(cfg *FitConfig) {
		cfg.Model = m
	}
}

// WithPeaks generates the model from a peak specification and background
// name when no model is given.
func WithPeaks(peaks map[string]int, background string) FitOption {
	return func(cfg *FitConfig) {
		if len(peaks) > 0 {
			cfg.Peaks = peaks
		}
		cfg.Background = background
	}
}

// WithParams starts from the given parameters instead of the model defaults.
func WithParams(p *params.Params) FitOption {
	return func(cfg *FitConfig) {
		cfg.Params = p
	}
}

// WithInits adds initial values and constraints, merged in order.
func WithInits(inits ...params.Inits) FitOption {
	return func(cfg *FitConfig) {
		cfg.Inits = append(cfg.Inits, inits...)
	}
}

// WithYNorm toggles normalisation of each spectrum by its maximum.
func WithYNorm(enabled bool) FitOption {
	return func(cfg *FitConfig) {
		cfg.YNorm = enabled
	}
}

// WithMethod selects the minimisation method.
func WithMethod(m minimize.Method) FitOption {
	return func(cfg *FitConfig) {
		if m != "" {
			cfg.Method = m
		}
	}
}

// WithMaxIterations bounds the optimiser iterations.
func WithMaxIterations(n int) FitOption {
	return func(cfg *FitConfig) {
		if n > 0 {
			cfg.MaxIter = n
		}
	}
}

// WithTolerance sets the optimiser convergence tolerance.
func WithTolerance(tol float64) FitOption {
	return func(cfg *FitConfig) {
		if tol > 0 {
			cfg.Tol = tol
		}
	}
}

// WithJitter enables random restarts. Empty shifts keep DefaultShifts and
// empty parnames select every peak center.
func WithJitter(shifts []float64, parnames ...string) FitOption {
	return func(cfg *FitConfig) {
		cfg.Jitter.Enabled = true
		if len(shifts) > 0 {
			cfg.Jitter.Shifts = shifts
		}
		if len(parnames) > 0 {
			cfg.Jitter.ParNames = parnames
		}
	}
}

// WithJitterCriterion sets the statistic and threshold that end jittering.
func WithJitterCriterion(attr string, thresh float64) FitOption {
	return func(cfg *FitConfig) {
		if attr != "" {
			cfg.Jitter.Attr = attr
		}
		cfg.Jitter.Thresh = thresh
	}
}

// WithSeed seeds the jitter shift selection.
func WithSeed(seed int64) FitOption {
	return func(cfg *FitConfig) {
		cfg.Seed = seed
	}
}

// WithLogger sets the logger; nil selects slog.Default.
func WithLogger(l *slog.Logger) FitOption {
	return func(cfg *FitConfig) {
		cfg.Logger = l
	}
}

func (cfg FitConfig) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

func (cfg FitConfig) minimizeOptions() []minimize.Option {
	return []minimize.Option{
		minimize.WithMethod(cfg.Method),
		minimize.WithMaxIterations(cfg.MaxIter),
		minimize.WithTolerance(cfg.Tol),
	}
}

// buildModel returns the configured model or generates one.
func (cfg FitConfig) buildModel() (*lineshape.MultipeakModel, error) {
	if cfg.Model != nil {
		return cfg.Model, nil
	}
	if len(cfg.Peaks) == 0 {
		return nil, ErrNoModel
	}
	return lineshape.Generate(cfg.Peaks, cfg.Background)
}

// Backend selects how a DistributedFitter executes its tasks.
type Backend string

const (
	// BackendGoroutines fits chunks of spectra on a bounded worker pool.
	BackendGoroutines Backend = "goroutines"
	// BackendSingles fits sequentially, for debugging and comparison.
	BackendSingles Backend = "singles"
)

// ProgressFunc is called after each spectrum with the number completed.
type ProgressFunc func(done, total int)

// RunConfig controls fitting over a patch.
type RunConfig struct {
	// NSpec limits the number of spectra fitted; 0 fits all.
	NSpec int
	// VarKeys are the setting keys applied to each band center, the first
	// taking the band position.
	VarKeys []string
	// OtherInitVals fill the keys after the first, for every band.
	OtherInitVals []float64
	// PrefExclude lists component prefixes that take no band position.
	PrefExclude []string
	// IncludeVary seeds band centers from the band initialisation.
	IncludeVary bool

	Workers   int
	ChunkSize int
	Backend   Backend
	Progress  ProgressFunc

	Fit []FitOption
}

// RunOption mutates a RunConfig.
type RunOption func(*RunConfig)

// DefaultRunConfig seeds band centers with value and vary=true, excludes
// the background, and uses one worker per CPU.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		VarKeys:       []string{"value", "vary"},
		OtherInitVals: []float64{1},
		PrefExclude:   []string{lineshape.BackgroundPrefix},
		IncludeVary:   true,
		Workers:       runtime.NumCPU(),
		Backend:       BackendGoroutines,
	}
}

// ApplyRunOptions applies zero or more options to the default config.
func ApplyRunOptions(opts ...RunOption) RunConfig {
	cfg := DefaultRunConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithNSpec limits the number of spectra fitted.
func WithNSpec(n int) RunOption {
	return func(cfg *RunConfig) {
		if n > 0 {
			cfg.NSpec = n
		}
	}
}

// WithVarKeys sets the per-band setting keys and the values of the keys
// after the first.
func WithVarKeys(keys []string, others ...float64) RunOption {
	return func(cfg *RunConfig) {
		if len(keys) > 0 {
			cfg.VarKeys = keys
			cfg.OtherInitVals = others
		}
	}
}

// WithPrefExclude sets the prefixes skipped when seeding band centers.
func WithPrefExclude(prefixes ...string) RunOption {
	return func(cfg *RunConfig) {
		cfg.PrefExclude = prefixes
	}
}

// WithIncludeVary toggles per-spectrum band seeding.
func WithIncludeVary(enabled bool) RunOption {
	return func(cfg *RunConfig) {
		cfg.IncludeVary = enabled
	}
}

// WithWorkers sets the size of the worker pool.
func WithWorkers(n int) RunOption {
	return func(cfg *RunConfig) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithChunkSize sets the number of spectra handed to a worker at once.
func WithChunkSize(n int) RunOption {
	return func(cfg *RunConfig) {
		if n > 0 {
			cfg.ChunkSize = n
		}
	}
}

// WithBackend selects the execution backend.
func WithBackend(b Backend) RunOption {
	return func(cfg *RunConfig) {
		if b != "" {
			cfg.Backend = b
		}
	}
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) RunOption {
	return func(cfg *RunConfig) {
		cfg.Progress = fn
	}
}

// WithFitOptions passes options to every spectrum fit.
func WithFitOptions(opts ...FitOption) RunOption {
	return func(cfg *RunConfig) {
		cfg.Fit = append(cfg.Fit, opts...)
	}
}
