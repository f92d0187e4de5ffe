package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/fitter"
)

var red = color.RGBA{R: 220, A: 255}

func xys(x, y []float64, step int) plotter.XYs {
	pts := make(plotter.XYs, 0, (len(x)+step-1)/step)
	for i := 0; i < len(x); i += step {
		pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
	}
	return pts
}

// PlotFitResult draws the model components, the best fit (red) and the
// data (black dots) of res.
func PlotFitResult(res *fitter.ModelResult, opts ...Option) (*plot.Plot, error) {
	if res == nil || res.Result == nil {
		return nil, ErrNilResult
	}
	cfg := applyOptions(opts)

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = cfg.xlabel
	p.Y.Label.Text = cfg.ylabel

	if cfg.components && res.Model != nil {
		for i, comp := range res.EvalComponents() {
			l, err := plotter.NewLine(xys(res.X, comp.Values, 1))
			if err != nil {
				return nil, fmt.Errorf("component %s: %w", comp.Prefix, err)
			}
			l.LineStyle.Color = plotutil.Color(i)
			l.LineStyle.Width = vg.Points(1.5)
			p.Add(l)
			p.Legend.Add(trimPrefix(comp.Prefix), l)
		}
	}

	fit, err := plotter.NewLine(xys(res.X, res.BestFit, 1))
	if err != nil {
		return nil, fmt.Errorf("best fit: %w", err)
	}
	fit.LineStyle.Color = red
	fit.LineStyle.Width = vg.Points(2)
	p.Add(fit)
	p.Legend.Add("best fit", fit)

	if len(res.Data) == len(res.X) {
		s, err := plotter.NewScatter(xys(res.X, res.Data, cfg.downsample))
		if err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}
		s.GlyphStyle.Color = color.Black
		s.GlyphStyle.Radius = vg.Points(1.5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("data", s)
	}

	if !cfg.legend {
		p.Legend = plot.NewLegend()
	}
	p.Legend.Top = true
	return p, nil
}

func trimPrefix(prefix string) string {
	if n := len(prefix); n > 0 && prefix[n-1] == '_' {
		return prefix[:n-1]
	}
	return prefix
}

// pathGrid adapts an energy × momentum array to plotter.GridXYZ. Row 0 is
// the highest energy.
type pathGrid struct {
	data     dataio.Array
	elo, ehi float64
}

func (g pathGrid) Dims() (c, r int) { return g.data.Shape[1], g.data.Shape[0] }

func (g pathGrid) Z(c, r int) float64 {
	return g.data.At(g.data.Shape[0]-1-r, c)
}

func (g pathGrid) X(c int) float64 { return float64(c) + 0.5 }

func (g pathGrid) Y(r int) float64 {
	de := (g.ehi - g.elo) / float64(g.data.Shape[0])
	return g.elo + (float64(r)+0.5)*de
}

// blues is a white to dark blue ramp.
type blues int

func (b blues) Colors() []color.Color {
	n := int(b)
	out := make([]color.Color, n)
	for i := range out {
		t := float64(i) / float64(max(1, n-1))
		out[i] = color.RGBA{
			R: uint8(247 - t*239),
			G: uint8(251 - t*203),
			B: uint8(255 - t*148),
			A: 255,
		}
	}
	return out
}

// PlotBandPath draws an energy-momentum cut. paths is energies × momenta
// with the highest energy in row 0. erange holds the lower and upper
// energy; when empty, the first and last entry of evals are used.
// pathInds places the ksymbols along the momentum axis.
func PlotBandPath(paths dataio.Array, ksymbols []string, erange, evals []float64, pathInds []int, opts ...Option) (*plot.Plot, error) {
	if paths.NDim() != 2 || paths.Size() == 0 {
		return nil, fmt.Errorf("%w: shape %v", ErrEmptyPath, paths.Shape)
	}
	if len(ksymbols) != len(pathInds) {
		return nil, fmt.Errorf("%w: %d symbols, %d indices", ErrTickMismatch, len(ksymbols), len(pathInds))
	}
	var elo, ehi float64
	switch {
	case len(erange) == 2:
		elo, ehi = erange[0], erange[1]
	case len(evals) > 0:
		elo, ehi = evals[0], evals[len(evals)-1]
	default:
		return nil, ErrEnergyRange
	}
	cfg := applyOptions(opts)

	p := plot.New()
	p.Title.Text = cfg.title
	p.Y.Label.Text = "Energy (eV)"

	hm := plotter.NewHeatMap(pathGrid{data: paths, elo: elo, ehi: ehi}, blues(cfg.paletteSize))
	hm.Min, hm.Max = cfg.vmin, cfg.vmax
	pal := hm.Palette.Colors()
	hm.Underflow, hm.Overflow = pal[0], pal[len(pal)-1]
	p.Add(hm)

	ticks := make([]plot.Tick, len(pathInds))
	for i, k := range pathInds {
		label := ksymbols[i]
		if cfg.overline {
			label = overline(label)
		}
		ticks[i] = plot.Tick{Value: float64(k), Label: label}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Length = 0
	p.X.Min, p.X.Max = 0, float64(paths.Shape[1])
	p.Y.Min, p.Y.Max = elo, ehi

	if cfg.klines && len(pathInds) > 1 {
		for _, k := range pathInds[:len(pathInds)-1] {
			l, err := plotter.NewLine(plotter.XYs{{X: float64(k), Y: elo}, {X: float64(k), Y: ehi}})
			if err != nil {
				return nil, err
			}
			l.LineStyle.Color = red
			l.LineStyle.Width = vg.Points(2)
			l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(l)
		}
	}
	return p, nil
}

// overline adds a combining overline to every rune of s.
func overline(s string) string {
	out := make([]rune, 0, 2*len(s))
	for _, r := range s {
		out = append(out, r, '\u0305')
	}
	return string(out)
}

// Save writes p to path; the format follows the extension (png, svg, pdf,
// eps, jpg, tif).
func Save(p *plot.Plot, path string, opts ...Option) error {
	cfg := applyOptions(opts)
	if err := p.Save(cfg.width, cfg.height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
