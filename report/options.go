package report

import "gonum.org/v1/plot/vg"

// DefaultMinCorrel is the smallest correlation magnitude listed in reports.
const DefaultMinCorrel = 0.1

type config struct {
	minCorrel   float64
	correl      bool
	derived     bool
	components  bool
	legend      bool
	downsample  int
	xlabel      string
	ylabel      string
	title       string
	width       vg.Length
	height      vg.Length
	overline    bool
	klines      bool
	vmin, vmax  float64
	paletteSize int
}

func defaultConfig() config {
	return config{
		minCorrel:   DefaultMinCorrel,
		correl:      true,
		derived:     true,
		components:  true,
		legend:      true,
		downsample:  1,
		ylabel:      "Intensity (a.u.)",
		xlabel:      "Energy (eV)",
		width:       8 * vg.Inch,
		height:      5 * vg.Inch,
		overline:    true,
		vmin:        0,
		vmax:        0.5,
		paletteSize: 64,
	}
}

// Option configures reports and figures.
type Option func(*config)

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// WithMinCorrel sets the correlation threshold of the text report.
func WithMinCorrel(c float64) Option {
	return func(cfg *config) { cfg.minCorrel = c }
}

// WithoutCorrelations omits the [[Correlations]] section.
func WithoutCorrelations() Option {
	return func(cfg *config) { cfg.correl = false }
}

// WithoutDerived omits derived peak quantities from the text report.
func WithoutDerived() Option {
	return func(cfg *config) { cfg.derived = false }
}

// WithComponents toggles drawing the individual model components.
func WithComponents(on bool) Option {
	return func(cfg *config) { cfg.components = on }
}

// WithLegend toggles the plot legend.
func WithLegend(on bool) Option {
	return func(cfg *config) { cfg.legend = on }
}

// WithDownsample draws every n-th data point.
func WithDownsample(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.downsample = n
		}
	}
}

// WithLabels sets the axis labels.
func WithLabels(x, y string) Option {
	return func(cfg *config) { cfg.xlabel, cfg.ylabel = x, y }
}

// WithTitle sets the figure title.
func WithTitle(title string) Option {
	return func(cfg *config) { cfg.title = title }
}

// WithSize sets the figure size used by Save.
func WithSize(w, h vg.Length) Option {
	return func(cfg *config) { cfg.width, cfg.height = w, h }
}

// WithOverline toggles the overline on high-symmetry point labels.
func WithOverline(on bool) Option {
	return func(cfg *config) { cfg.overline = on }
}

// WithSymmetryLines draws dashed vertical lines at the inner
// high-symmetry points.
func WithSymmetryLines(on bool) Option {
	return func(cfg *config) { cfg.klines = on }
}

// WithColorRange sets the intensity limits of heat maps.
func WithColorRange(vmin, vmax float64) Option {
	return func(cfg *config) { cfg.vmin, cfg.vmax = vmin, vmax }
}
