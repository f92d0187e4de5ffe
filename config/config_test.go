package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pesfit/fit/fitter"
	"github.com/cwbudde/algo-pesfit/fit/minimize"
)

const sampleYAML = `
model:
  peaks: {lorentzian: 3}
  background: linear
fit:
  method: nelder-mead
  max_iterations: 500
  ynorm: false
  jitter:
    enabled: true
    shifts: [0.05, 0.1]
    parnames: [lp1_center]
    attr: redchi
    thresh: 0.5
inits:
  lp1_:
    sigma: {value: 0.2, min: 0.01}
  bg_:
    slope: {value: 0, vary: false}
data:
  path: pes.json
  bands_key: bands
  range: {lo: 10, hi: 100}
  offset: -0.1
run:
  nspec: 12
  pref_exclude: [bg_, lp3_]
  backend: singles
  workers: 3
output:
  path: out.csv
log_level: debug
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "leastsq", cfg.Fit.Method)
	assert.True(t, cfg.Fit.YNorm)
	assert.Equal(t, "chisqr", cfg.Fit.Jitter.Attr)
	assert.Equal(t, DefaultPeaks, cfg.Peaks())
	assert.Equal(t, "goroutines", cfg.Run.Backend)
	assert.Equal(t, "E", cfg.Data.EnergyKey)
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeFile(t, "run.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"lorentzian": 3}, cfg.Peaks())
	assert.Equal(t, "linear", cfg.Model.Background)
	assert.False(t, cfg.Fit.YNorm)
	assert.Equal(t, 10, cfg.Data.Range.Lo)
	assert.Equal(t, "out.csv", cfg.Output.Path)
	assert.Equal(t, 1e-8, cfg.Fit.Tolerance)

	inits, err := cfg.InitSettings()
	require.NoError(t, err)
	require.Contains(t, inits, "lp1_")
	assert.Equal(t, 0.01, *inits["lp1_"]["sigma"].Min)
	assert.False(t, *inits["bg_"]["slope"].Vary)
}

func TestFitOptions(t *testing.T) {
	cfg, err := Load(writeFile(t, "run.yaml", sampleYAML))
	require.NoError(t, err)

	opts, err := cfg.FitOptions()
	require.NoError(t, err)
	fc := fitter.ApplyFitOptions(opts...)
	assert.Equal(t, minimize.MethodNelder, fc.Method)
	assert.Equal(t, 500, fc.MaxIter)
	assert.False(t, fc.YNorm)
	assert.Equal(t, "linear", fc.Background)
	assert.Empty(t, fc.Inits)
	assert.True(t, fc.Jitter.Enabled)
	assert.Equal(t, []float64{0.05, 0.1}, fc.Jitter.Shifts)
	assert.Equal(t, []string{"lp1_center"}, fc.Jitter.ParNames)
	assert.Equal(t, "redchi", fc.Jitter.Attr)
	assert.Equal(t, 0.5, fc.Jitter.Thresh)

	rc := fitter.ApplyRunOptions(cfg.RunOptions()...)
	assert.Equal(t, 12, rc.NSpec)
	assert.Equal(t, 3, rc.Workers)
	assert.Equal(t, fitter.BackendSingles, rc.Backend)
	assert.Equal(t, []string{"bg_", "lp3_"}, rc.PrefExclude)
	assert.Equal(t, []string{"value", "vary"}, rc.VarKeys)
}

func TestJitterConfig(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantErr  string
		enabled  bool
		shifts   []float64
		parnames []string
		attr     string
		thresh   float64
	}{
		{
			name: "symmetric shifts",
			yaml: `fit:
  jitter:
    enabled: true
    shifts: [-0.08, 0.0, 0.08]
    parnames: [lp1_center, lp2_center]
`,
			enabled:  true,
			shifts:   []float64{-0.08, 0, 0.08},
			parnames: []string{"lp1_center", "lp2_center"},
			attr:     "chisqr",
			thresh:   0.85,
		},
		{
			name: "criterion",
			yaml: `fit:
  jitter:
    enabled: true
    attr: bic
    thresh: -120
`,
			enabled: true,
			shifts:  fitter.DefaultShifts(),
			attr:    "bic",
			thresh:  -120,
		},
		{
			name: "disabled",
			yaml: `fit:
  jitter:
    shifts: [-0.1, 0.1]
`,
			shifts: fitter.DefaultShifts(),
			attr:   "chisqr",
			thresh: 0.85,
		},
		{
			name: "unknown attr",
			yaml: `fit:
  jitter:
    enabled: true
    attr: rmse
`,
			wantErr: "fit.jitter.attr",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, "run.yaml", tt.yaml))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			opts, err := cfg.FitOptions()
			require.NoError(t, err)
			fc := fitter.ApplyFitOptions(opts...)
			assert.Equal(t, tt.enabled, fc.Jitter.Enabled)
			assert.InDeltaSlice(t, tt.shifts, fc.Jitter.Shifts, 1e-15)
			assert.Equal(t, tt.parnames, fc.Jitter.ParNames)
			assert.Equal(t, tt.attr, fc.Jitter.Attr)
			assert.Equal(t, tt.thresh, fc.Jitter.Thresh)
		})
	}
}

func TestRunOptionsOtherInitVals(t *testing.T) {
	cfg := NewConfig()
	cfg.Run.OtherInitVals = []float64{0}
	require.NoError(t, cfg.Validate())
	rc := fitter.ApplyRunOptions(cfg.RunOptions()...)
	assert.Equal(t, []string{"value", "vary"}, rc.VarKeys)
	assert.Equal(t, []float64{0}, rc.OtherInitVals)

	cfg.Run.OtherInitVals = []float64{0, 1}
	assert.Error(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PESFIT_LOG_LEVEL", "warn")
	t.Setenv("PESFIT_WORKERS", "7")
	t.Setenv("PESFIT_METHOD", "lbfgsb")

	cfg, err := Load(writeFile(t, "run.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7, cfg.Run.Workers)
	assert.Equal(t, "lbfgsb", cfg.Fit.Method)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown peak", func(c *Config) { c.Model.Peaks = map[string]int{"sinc": 2} }},
		{"two peak types", func(c *Config) { c.Model.Peaks = map[string]int{"voigt": 1, "gaussian": 1} }},
		{"zero peaks", func(c *Config) { c.Model.Peaks = map[string]int{"voigt": 0} }},
		{"unknown background", func(c *Config) { c.Model.Background = "spline" }},
		{"unknown method", func(c *Config) { c.Fit.Method = "annealing" }},
		{"unknown jitter attr", func(c *Config) { c.Fit.Jitter.Attr = "loss" }},
		{"bad inits", func(c *Config) { c.Inits = map[string]any{"lp1_": map[string]any{"center": map[string]any{"step": 1}}} }},
		{"negative range", func(c *Config) { c.Data.Range.Lo = -1 }},
		{"negative smoothing", func(c *Config) { c.Data.SmoothSigma = -2 }},
		{"unknown backend", func(c *Config) { c.Run.Backend = "mpi" }},
		{"negative workers", func(c *Config) { c.Run.Workers = -1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "model: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.yaml", "fit:\n  method: simplex-annealing\n"))
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load(writeFile(t, "run.yaml", sampleYAML))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "copy.yaml")
	require.NoError(t, cfg.WriteYAML(out))
	back, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Model, back.Model)
	assert.Equal(t, cfg.Fit, back.Fit)
	assert.Equal(t, cfg.Run, back.Run)
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "pes.json")
	require.NoError(t, os.WriteFile(data, []byte(`{
		"E": [0, 1, 2, 3],
		"V": [[[1, 2, 3, 2], [2, 3, 4, 3]]],
		"bands": [[0.5, 1.5]]
	}`), 0o644))

	cfg := NewConfig()
	cfg.Data.Path = data
	cfg.Data.BandsKey = "bands"
	cfg.Data.SubtractMin = true

	ds, err := cfg.LoadData()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, ds.X)
	assert.Equal(t, []int{1, 2, 4}, ds.Spectra.Shape)
	assert.Equal(t, []float64{0, 1, 2, 1}, ds.Spectra.Row(1))
	assert.Equal(t, []int{1, 2}, ds.Bands.Shape)

	cfg.Data.SmoothSigma = 1
	ds, err = cfg.LoadData()
	require.NoError(t, err)
	assert.Len(t, ds.Spectra.Data, 8)

	cfg.Data.SpectraKey = "missing"
	_, err = cfg.LoadData()
	assert.Error(t, err)

	cfg.Data.Path = ""
	_, err = cfg.LoadData()
	assert.Error(t, err)
}
