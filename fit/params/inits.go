package params

import (
	"fmt"
	"sort"
)

// Setting is a partial parameter update. Nil fields are left unchanged.
type Setting struct {
	Value *float64 `yaml:"value,omitempty" json:"value,omitempty"`
	Min   *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max   *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Vary  *bool    `yaml:"vary,omitempty" json:"vary,omitempty"`
	Expr  *string  `yaml:"expr,omitempty" json:"expr,omitempty"`
}

// merge overlays the non-nil fields of o onto s.
func (s Setting) merge(o Setting) Setting {
	if o.Value != nil {
		s.Value = o.Value
	}
	if o.Min != nil {
		s.Min = o.Min
	}
	if o.Max != nil {
		s.Max = o.Max
	}
	if o.Vary != nil {
		s.Vary = o.Vary
	}
	if o.Expr != nil {
		s.Expr = o.Expr
	}
	return s
}

// Inits maps component prefix → parameter base name → setting.
// The empty prefix holds settings keyed by full parameter name.
type Inits map[string]map[string]Setting

// Merge combines inits in order. Later settings override individual fields
// of earlier ones; the inputs are not modified.
func Merge(inits ...Inits) Inits {
	out := make(Inits)
	for _, in := range inits {
		for prefix, comp := range in {
			dst, ok := out[prefix]
			if !ok {
				dst = make(map[string]Setting, len(comp))
				out[prefix] = dst
			}
			for base, s := range comp {
				dst[base] = dst[base].merge(s)
			}
		}
	}
	return out
}

// Prefixes returns the prefixes in sorted order.
func (in Inits) Prefixes() []string {
	out := make([]string, 0, len(in))
	for prefix := range in {
		out = append(out, prefix)
	}
	sort.Strings(out)
	return out
}

// Without returns a copy of in lacking the given prefixes.
func (in Inits) Without(prefixes ...string) Inits {
	skip := make(map[string]bool, len(prefixes))
	for _, p := range prefixes {
		skip[p] = true
	}
	out := make(Inits, len(in))
	for prefix, comp := range in {
		if !skip[prefix] {
			out[prefix] = comp
		}
	}
	return out
}

// ApplyTo writes the settings into p. Names under a component prefix that p
// does not define are skipped; full names (empty prefix) must exist.
func (in Inits) ApplyTo(p *Params) error {
	for _, prefix := range in.Prefixes() {
		comp := in[prefix]
		bases := make([]string, 0, len(comp))
		for base := range comp {
			bases = append(bases, base)
		}
		sort.Strings(bases)

		for _, base := range bases {
			name := prefix + base
			if !p.Has(name) {
				if prefix == "" {
					return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
				}
				continue
			}
			if err := p.Set(name, comp[base]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Generate builds per-component settings for one parameter. Each entry of
// values supplies, for the matching prefix, one number per key. Keys are
// "value", "min", "max" and "vary"; a nonzero vary means true.
func Generate(parname string, keys, prefixes []string, values [][]float64) (Inits, error) {
	if len(prefixes) != len(values) {
		return nil, fmt.Errorf("%w: %d prefixes, %d value sets", ErrLengthMismatch, len(prefixes), len(values))
	}
	out := make(Inits, len(prefixes))
	for i, prefix := range prefixes {
		vals := values[i]
		if len(vals) != len(keys) {
			return nil, fmt.Errorf("%w: %s has %d values for %d keys", ErrLengthMismatch, prefix, len(vals), len(keys))
		}
		var s Setting
		for j, key := range keys {
			if err := s.assign(key, vals[j]); err != nil {
				return nil, err
			}
		}
		out[prefix] = map[string]Setting{parname: s}
	}
	return out, nil
}

func (s *Setting) assign(key string, v float64) error {
	switch key {
	case "value":
		s.Value = Float(v)
	case "min":
		s.Min = Float(v)
	case "max":
		s.Max = Float(v)
	case "vary":
		s.Vary = Bool(v != 0)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}
