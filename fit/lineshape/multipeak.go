package lineshape

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/internal/seq"
)

// Default component prefixes.
const (
	PeakPrefix       = "lp"
	BackgroundPrefix = "bg_"
)

// Op combines component curves.
type Op int

const (
	OpAdd Op = iota
	OpMul
)

// String returns the operator symbol.
func (o Op) String() string {
	if o == OpMul {
		return "*"
	}
	return "+"
}

// ComponentCurve is one evaluated component.
type ComponentCurve struct {
	Prefix string
	Values []float64
}

type modelConfig struct {
	background Profile
	op         Op
	prefix     string
}

// Option configures a MultipeakModel.
type Option func(*modelConfig)

// WithBackground adds a background component prefixed bg_.
func WithBackground(bg Profile) Option {
	return func(cfg *modelConfig) {
		cfg.background = bg
	}
}

// WithOperator sets how components are combined.
func WithOperator(op Op) Option {
	return func(cfg *modelConfig) {
		if op == OpAdd || op == OpMul {
			cfg.op = op
		}
	}
}

// WithPeakPrefix replaces the "lp" stem of peak prefixes.
func WithPeakPrefix(prefix string) Option {
	return func(cfg *modelConfig) {
		if prefix != "" {
			cfg.prefix = prefix
		}
	}
}

// MultipeakModel is a composite of identical peak profiles and an optional
// background.
type MultipeakModel struct {
	components []Component
	op         Op
}

// NewMultipeakModel builds n peak components lp1_ … lpN_ of the given
// profile, followed by the background if one is configured.
func NewMultipeakModel(peak Profile, n int, opts ...Option) (*MultipeakModel, error) {
	if peak == nil {
		return nil, ErrUnknownProfile
	}
	if peak.Kind() != KindPeak {
		return nil, fmt.Errorf("%w: %s", ErrNotPeak, peak.Name())
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoPeaks, n)
	}

	cfg := modelConfig{op: OpAdd, prefix: PeakPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	comps := make([]Component, 0, n+1)
	for i := 1; i <= n; i++ {
		comps = append(comps, Component{Prefix: fmt.Sprintf("%s%d_", cfg.prefix, i), Profile: peak})
	}
	if cfg.background != nil {
		comps = append(comps, Component{Prefix: BackgroundPrefix, Profile: cfg.background})
	}
	return &MultipeakModel{components: comps, op: cfg.op}, nil
}

// NewCompositeModel wraps existing components.
func NewCompositeModel(components []Component, op Op) (*MultipeakModel, error) {
	if len(components) == 0 {
		return nil, ErrNoComponents
	}
	seen := make(map[string]bool, len(components))
	for _, c := range components {
		if seen[c.Prefix] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePrefix, c.Prefix)
		}
		seen[c.Prefix] = true
	}
	comps := make([]Component, len(components))
	copy(comps, components)
	return &MultipeakModel{components: comps, op: op}, nil
}

// Components returns the model components in evaluation order.
func (m *MultipeakModel) Components() []Component {
	out := make([]Component, len(m.components))
	copy(out, m.components)
	return out
}

// NComp returns the number of components.
func (m *MultipeakModel) NComp() int { return len(m.components) }

// NPeaks returns the number of peak components.
func (m *MultipeakModel) NPeaks() int {
	n := 0
	for _, c := range m.components {
		if c.Profile.Kind() == KindPeak {
			n++
		}
	}
	return n
}

// Op returns the combining operator.
func (m *MultipeakModel) Op() Op { return m.op }

// Prefixes returns all component prefixes.
func (m *MultipeakModel) Prefixes() []string {
	out := make([]string, len(m.components))
	for i, c := range m.components {
		out[i] = c.Prefix
	}
	return out
}

// PeakPrefixes returns the prefixes of peak components in order.
func (m *MultipeakModel) PeakPrefixes() []string {
	var out []string
	for _, c := range m.components {
		if c.Profile.Kind() == KindPeak {
			out = append(out, c.Prefix)
		}
	}
	return out
}

// ParamNames returns every parameter name across components.
func (m *MultipeakModel) ParamNames() []string {
	var out []string
	for _, c := range m.components {
		out = append(out, c.ParamNames()...)
	}
	return out
}

// MakeParams returns the merged parameter set with default hints.
func (m *MultipeakModel) MakeParams() *params.Params {
	p := params.NewParams()
	for _, c := range m.components {
		c.AddParams(p)
	}
	p.Resolve()
	return p
}

// Eval writes the combined model at x into dst.
func (m *MultipeakModel) Eval(dst, x []float64, p *params.Params) {
	dst = dst[:len(x)]
	scratch := make([]float64, len(x))
	for i, c := range m.components {
		if i == 0 {
			c.Eval(dst, x, p)
			continue
		}
		c.Eval(scratch, x, p)
		if m.op == OpMul {
			vecmath.MulBlockInPlace(dst, scratch)
		} else {
			vecmath.AddBlockInPlace(dst, scratch)
		}
	}
}

// EvalComponents evaluates every component separately.
func (m *MultipeakModel) EvalComponents(x []float64, p *params.Params) []ComponentCurve {
	out := make([]ComponentCurve, len(m.components))
	for i, c := range m.components {
		vals := make([]float64, len(x))
		c.Eval(vals, x, p)
		out[i] = ComponentCurve{Prefix: c.Prefix, Values: vals}
	}
	return out
}

// Derive returns the derived quantities of every component.
func (m *MultipeakModel) Derive(p *params.Params) []Derived {
	var out []Derived
	for _, c := range m.components {
		out = append(out, c.Derive(p)...)
	}
	return out
}

// String joins the component representations with the operator.
func (m *MultipeakModel) String() string {
	reprs := make([]string, len(m.components))
	ops := make([]string, len(m.components))
	for i, c := range m.components {
		reprs[i] = c.String()
		ops[i] = m.op.String()
	}
	parts, err := seq.Riffle(reprs, ops)
	if err != nil {
		return ""
	}
	return strings.Join(parts[:len(parts)-1], " ")
}
