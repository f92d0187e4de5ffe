package params

import (
	"fmt"
	"math"
)

// Parameter is a single model parameter.
type Parameter struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
	Vary  bool
	// Expr names the parameter whose value this one mirrors.
	Expr   string
	Stderr float64
}

// New returns an unbounded, varying parameter.
func New(name string, value float64) Parameter {
	return Parameter{
		Name:  name,
		Value: value,
		Min:   math.Inf(-1),
		Max:   math.Inf(1),
		Vary:  true,
	}
}

// Free reports whether the parameter takes part in the minimisation.
func (p *Parameter) Free() bool {
	return p.Vary && p.Expr == ""
}

// Bounded reports whether either bound is finite.
func (p *Parameter) Bounded() bool {
	return !math.IsInf(p.Min, -1) || !math.IsInf(p.Max, 1)
}

// Clip limits Value to [Min, Max].
func (p *Parameter) Clip() {
	if p.Value < p.Min {
		p.Value = p.Min
	}
	if p.Value > p.Max {
		p.Value = p.Max
	}
}

// Params is an insertion-ordered collection of parameters.
type Params struct {
	order  []string
	byName map[string]*Parameter
}

// NewParams returns an empty collection.
func NewParams() *Params {
	return &Params{byName: make(map[string]*Parameter)}
}

// Add inserts par, replacing an existing parameter of the same name in place.
func (p *Params) Add(par Parameter) {
	if existing, ok := p.byName[par.Name]; ok {
		*existing = par
		return
	}
	cp := par
	p.byName[par.Name] = &cp
	p.order = append(p.order, par.Name)
}

// Get returns the named parameter.
func (p *Params) Get(name string) (*Parameter, bool) {
	par, ok := p.byName[name]
	return par, ok
}

// Value returns the value of the named parameter, or 0 when it is missing.
func (p *Params) Value(name string) float64 {
	if par, ok := p.byName[name]; ok {
		return par.Value
	}
	return 0
}

// Has reports whether name exists.
func (p *Params) Has(name string) bool {
	_, ok := p.byName[name]
	return ok
}

// Names returns parameter names in insertion order.
func (p *Params) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	return len(p.order)
}

// All returns the parameters in insertion order. The pointers alias the
// collection.
func (p *Params) All() []*Parameter {
	out := make([]*Parameter, len(p.order))
	for i, name := range p.order {
		out[i] = p.byName[name]
	}
	return out
}

// Free returns the varying, unmirrored parameters in insertion order.
func (p *Params) Free() []*Parameter {
	var out []*Parameter
	for _, name := range p.order {
		if par := p.byName[name]; par.Free() {
			out = append(out, par)
		}
	}
	return out
}

// Values returns a name → value map.
func (p *Params) Values() map[string]float64 {
	out := make(map[string]float64, len(p.order))
	for _, name := range p.order {
		out[name] = p.byName[name].Value
	}
	return out
}

// Clone returns a deep copy.
func (p *Params) Clone() *Params {
	out := &Params{
		order:  make([]string, len(p.order)),
		byName: make(map[string]*Parameter, len(p.order)),
	}
	copy(out.order, p.order)
	for name, par := range p.byName {
		cp := *par
		out.byName[name] = &cp
	}
	return out
}

// Set applies a partial update to the named parameter.
//
// Setting Value or Vary=true on a mirrored parameter releases the mirror,
// unless the same setting also carries an Expr.
func (p *Params) Set(name string, s Setting) error {
	par, ok := p.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	if s.Expr != nil && *s.Expr == name {
		return fmt.Errorf("%w: %s", ErrSelfReference, name)
	}
	lo, hi := par.Min, par.Max
	if s.Min != nil {
		lo = *s.Min
	}
	if s.Max != nil {
		hi = *s.Max
	}
	if lo > hi {
		return fmt.Errorf("%w: %s [%g, %g]", ErrInvalidBounds, name, lo, hi)
	}
	par.Min, par.Max = lo, hi
	if s.Value != nil {
		par.Value = *s.Value
		par.Expr = ""
	}
	if s.Vary != nil {
		par.Vary = *s.Vary
		if par.Vary {
			par.Expr = ""
		}
	}
	if s.Expr != nil {
		par.Expr = *s.Expr
	}
	return nil
}

// Resolve copies mirrored values from their sources. Chains are followed up
// to the collection size; a missing source leaves the value untouched.
func (p *Params) Resolve() {
	for range p.order {
		changed := false
		for _, name := range p.order {
			par := p.byName[name]
			if par.Expr == "" {
				continue
			}
			src, ok := p.byName[par.Expr]
			if !ok || src.Value == par.Value {
				continue
			}
			par.Value = src.Value
			changed = true
		}
		if !changed {
			return
		}
	}
}

// Float returns a pointer to v, for building a [Setting].
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for building a [Setting].
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for building a [Setting].
func String(v string) *string { return &v }
