package lineshape

import (
	"fmt"

	"github.com/cwbudde/algo-pesfit/fit/params"
)

// Component binds a profile to a parameter-name prefix.
type Component struct {
	Prefix  string
	Profile Profile
}

// ParamNames returns the prefixed parameter names.
func (c Component) ParamNames() []string {
	specs := c.Profile.Params()
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = c.Prefix + s.Name
	}
	return out
}

// AddParams inserts the component's parameters with their default hints.
func (c Component) AddParams(p *params.Params) {
	for _, s := range c.Profile.Params() {
		par := params.New(c.Prefix+s.Name, s.Value)
		par.Min, par.Max = s.Min, s.Max
		if s.Expr != "" {
			par.Expr = c.Prefix + s.Expr
		}
		p.Add(par)
	}
}

// MakeParams returns a fresh parameter set for the component alone.
func (c Component) MakeParams() *params.Params {
	p := params.NewParams()
	c.AddParams(p)
	return p
}

// values gathers the component's parameter values in profile order.
func (c Component) values(dst []float64, p *params.Params) []float64 {
	specs := c.Profile.Params()
	dst = dst[:0]
	for _, s := range specs {
		dst = append(dst, p.Value(c.Prefix+s.Name))
	}
	return dst
}

// Eval writes the component curve at x into dst.
func (c Component) Eval(dst, x []float64, p *params.Params) {
	vals := c.values(make([]float64, 0, 4), p)
	for i, xv := range x {
		dst[i] = c.Profile.At(xv, vals)
	}
}

// Derive returns the component's derived quantities, prefixed.
func (c Component) Derive(p *params.Params) []Derived {
	d := c.Profile.Derive(c.values(nil, p))
	for i := range d {
		d[i].Name = c.Prefix + d[i].Name
	}
	return d
}

// String renders the component as Model(name, prefix='...').
func (c Component) String() string {
	return fmt.Sprintf("Model(%s, prefix='%s')", lowerFirst(c.Profile.Name()), c.Prefix)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
