// Package config loads pesfit run configurations from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-pesfit/fit/fitter"
	"github.com/cwbudde/algo-pesfit/fit/lineshape"
	"github.com/cwbudde/algo-pesfit/fit/minimize"
	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/fit/preprocess"
)

// Config is a complete fitting run.
type Config struct {
	Model  ModelConfig    `yaml:"model" json:"model"`
	Fit    FitConfig      `yaml:"fit" json:"fit"`
	Inits  map[string]any `yaml:"inits,omitempty" json:"inits,omitempty"`
	Data   DataConfig     `yaml:"data" json:"data"`
	Run    RunConfig      `yaml:"run" json:"run"`
	Output OutputConfig   `yaml:"output" json:"output"`

	LogLevel string `yaml:"log_level" json:"log_level"`
}

// ModelConfig names the lineshape, e.g. peaks {voigt: 2} with a linear
// background. An empty peak map selects DefaultPeaks.
type ModelConfig struct {
	Peaks      map[string]int `yaml:"peaks,omitempty" json:"peaks,omitempty"`
	Background string         `yaml:"background" json:"background"`
}

// FitConfig holds the per-spectrum fit settings.
type FitConfig struct {
	Method        string       `yaml:"method" json:"method"`
	MaxIterations int          `yaml:"max_iterations" json:"max_iterations"`
	Tolerance     float64      `yaml:"tolerance" json:"tolerance"`
	YNorm         bool         `yaml:"ynorm" json:"ynorm"`
	Seed          int64        `yaml:"seed" json:"seed"`
	Jitter        JitterConfig `yaml:"jitter" json:"jitter"`
}

// JitterConfig configures random restarts of a poor fit.
type JitterConfig struct {
	Enabled  bool      `yaml:"enabled" json:"enabled"`
	Shifts   []float64 `yaml:"shifts,omitempty" json:"shifts,omitempty"`
	ParNames []string  `yaml:"parnames,omitempty" json:"parnames,omitempty"`
	Attr     string    `yaml:"attr" json:"attr"`
	Thresh   float64   `yaml:"thresh" json:"thresh"`
}

// DataConfig locates the energies, spectra and band initialisation.
type DataConfig struct {
	Path       string `yaml:"path" json:"path"`
	EnergyKey  string `yaml:"energy_key" json:"energy_key"`
	SpectraKey string `yaml:"spectra_key" json:"spectra_key"`
	// BandsPath defaults to Path when BandsKey is set.
	BandsPath string           `yaml:"bands_path,omitempty" json:"bands_path,omitempty"`
	BandsKey  string           `yaml:"bands_key,omitempty" json:"bands_key,omitempty"`
	Range     preprocess.Range `yaml:"range" json:"range"`
	Offset    float64          `yaml:"offset" json:"offset"`

	SubtractMin bool    `yaml:"subtract_min" json:"subtract_min"`
	SmoothSigma float64 `yaml:"smooth_sigma" json:"smooth_sigma"`
}

// RunConfig controls fitting over a patch.
type RunConfig struct {
	NSpec         int       `yaml:"nspec" json:"nspec"`
	VarKeys       []string  `yaml:"varkeys,omitempty" json:"varkeys,omitempty"`
	OtherInitVals []float64 `yaml:"other_init_vals,omitempty" json:"other_init_vals,omitempty"`
	PrefExclude   []string  `yaml:"pref_exclude,omitempty" json:"pref_exclude,omitempty"`
	IncludeVary   bool      `yaml:"include_vary" json:"include_vary"`
	Parallel      bool      `yaml:"parallel" json:"parallel"`
	Backend       string    `yaml:"backend" json:"backend"`
	Workers       int       `yaml:"workers" json:"workers"`
	ChunkSize     int       `yaml:"chunk_size" json:"chunk_size"`
}

// OutputConfig sets where results go. Report, when set, receives a text
// report per spectrum.
type OutputConfig struct {
	Path   string `yaml:"path" json:"path"`
	Table  string `yaml:"table,omitempty" json:"table,omitempty"`
	Report string `yaml:"report,omitempty" json:"report,omitempty"`
}

// DefaultPeaks is used when the model section names no peaks.
var DefaultPeaks = map[string]int{"Voigt": 2}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	fc := fitter.DefaultFitConfig()
	rc := fitter.DefaultRunConfig()
	return &Config{
		Model: ModelConfig{Background: fc.Background},
		Fit: FitConfig{
			Method:        string(fc.Method),
			MaxIterations: minimize.DefaultMaxIterations,
			Tolerance:     minimize.DefaultTolerance,
			YNorm:         fc.YNorm,
			Seed:          fc.Seed,
			Jitter: JitterConfig{
				Attr:   fc.Jitter.Attr,
				Thresh: fc.Jitter.Thresh,
			},
		},
		Data: DataConfig{
			EnergyKey:  "E",
			SpectraKey: "V",
		},
		Run: RunConfig{
			IncludeVary: rc.IncludeVary,
			Parallel:    true,
			Backend:     string(rc.Backend),
		},
		Output:   OutputConfig{Path: "fitres.db"},
		LogLevel: "info",
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets PESFIT_LOG_LEVEL, PESFIT_WORKERS and
// PESFIT_METHOD take precedence over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PESFIT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PESFIT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Run.Workers = n
		}
	}
	if v := os.Getenv("PESFIT_METHOD"); v != "" {
		c.Fit.Method = v
	}
}

// Validate checks names and ranges.
func (c *Config) Validate() error {
	for name := range c.Model.Peaks {
		if _, err := lineshape.Lookup(name); err != nil {
			return fmt.Errorf("model.peaks: %w", err)
		}
	}
	if len(c.Model.Peaks) > 1 {
		return fmt.Errorf("model.peaks: %w", lineshape.ErrMultiplePeakTypes)
	}
	for name, n := range c.Model.Peaks {
		if n <= 0 {
			return fmt.Errorf("model.peaks.%s must be positive, got %d", name, n)
		}
	}
	if bg := c.Model.Background; bg != "" && !strings.EqualFold(bg, "none") {
		if _, err := lineshape.Lookup(bg); err != nil {
			return fmt.Errorf("model.background: %w", err)
		}
	}
	if _, err := minimize.ParseMethod(c.Fit.Method); err != nil {
		return fmt.Errorf("fit.method: %w", err)
	}
	if c.Fit.MaxIterations < 0 {
		return fmt.Errorf("fit.max_iterations must be non-negative, got %d", c.Fit.MaxIterations)
	}
	if c.Fit.Tolerance < 0 {
		return fmt.Errorf("fit.tolerance must be non-negative, got %g", c.Fit.Tolerance)
	}
	if a := c.Fit.Jitter.Attr; a != "" {
		if _, err := (&minimize.Result{}).Attr(a); err != nil {
			return fmt.Errorf("fit.jitter.attr: %w", err)
		}
	}
	if _, err := c.InitSettings(); err != nil {
		return fmt.Errorf("inits: %w", err)
	}
	if c.Data.Range.Lo < 0 {
		return fmt.Errorf("data.range.lo must be non-negative, got %d", c.Data.Range.Lo)
	}
	if c.Data.SmoothSigma < 0 {
		return fmt.Errorf("data.smooth_sigma must be non-negative, got %g", c.Data.SmoothSigma)
	}
	switch fitter.Backend(strings.ToLower(c.Run.Backend)) {
	case fitter.BackendGoroutines, fitter.BackendSingles:
	default:
		return fmt.Errorf("%w: %q", fitter.ErrUnknownBackend, c.Run.Backend)
	}
	if c.Run.NSpec < 0 || c.Run.Workers < 0 || c.Run.ChunkSize < 0 {
		return fmt.Errorf("run.nspec, run.workers and run.chunk_size must be non-negative")
	}
	if keys := c.varKeys(); len(c.Run.OtherInitVals) > 0 && len(c.Run.OtherInitVals) != len(keys)-1 {
		return fmt.Errorf("run.other_init_vals needs %d values for varkeys %v", len(keys)-1, keys)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %s", c.LogLevel)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitSettings converts the inits section.
func (c *Config) InitSettings() (params.Inits, error) {
	return params.FromNested(c.Inits)
}

// Peaks returns the configured peaks or DefaultPeaks.
func (c *Config) Peaks() map[string]int {
	if len(c.Model.Peaks) == 0 {
		return DefaultPeaks
	}
	return c.Model.Peaks
}

// FitOptions translates the model and fit sections. The inits section is
// not included; patch fitters take it through SetInits and single fits
// through fitter.WithInits.
func (c *Config) FitOptions() ([]fitter.FitOption, error) {
	method, err := minimize.ParseMethod(c.Fit.Method)
	if err != nil {
		return nil, err
	}
	opts := []fitter.FitOption{
		fitter.WithPeaks(c.Peaks(), c.Model.Background),
		fitter.WithMethod(method),
		fitter.WithMaxIterations(c.Fit.MaxIterations),
		fitter.WithTolerance(c.Fit.Tolerance),
		fitter.WithYNorm(c.Fit.YNorm),
		fitter.WithSeed(c.Fit.Seed),
	}
	if j := c.Fit.Jitter; j.Enabled {
		opts = append(opts,
			fitter.WithJitter(j.Shifts, j.ParNames...),
			fitter.WithJitterCriterion(j.Attr, j.Thresh))
	}
	return opts, nil
}

// RunOptions translates the run section.
func (c *Config) RunOptions() []fitter.RunOption {
	r := c.Run
	opts := []fitter.RunOption{
		fitter.WithNSpec(r.NSpec),
		fitter.WithIncludeVary(r.IncludeVary),
		fitter.WithWorkers(r.Workers),
		fitter.WithChunkSize(r.ChunkSize),
		fitter.WithBackend(fitter.Backend(strings.ToLower(r.Backend))),
	}
	if len(r.VarKeys) > 0 || len(r.OtherInitVals) > 0 {
		opts = append(opts, fitter.WithVarKeys(c.varKeys(), r.OtherInitVals...))
	}
	if r.PrefExclude != nil {
		opts = append(opts, fitter.WithPrefExclude(r.PrefExclude...))
	}
	return opts
}

func (c *Config) varKeys() []string {
	if len(c.Run.VarKeys) > 0 {
		return c.Run.VarKeys
	}
	return fitter.DefaultRunConfig().VarKeys
}
