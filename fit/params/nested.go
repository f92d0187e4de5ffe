package params

import "fmt"

// Depth returns the nesting depth of generic string-keyed maps, counting
// from level. Non-map values and empty maps end the descent.
func Depth(v any, level int) int {
	m, ok := asMap(v)
	if !ok || len(m) == 0 {
		return level
	}
	deepest := level
	for _, child := range m {
		if d := Depth(child, level+1); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// FromNested converts decoded YAML/JSON into Inits. Depth 3 is read as
// prefix → base name → setting; depth 2 as full name → setting.
func FromNested(m map[string]any) (Inits, error) {
	switch d := Depth(m, 0); d {
	case 0:
		return Inits{}, nil
	case 3:
		out := make(Inits, len(m))
		for prefix, comp := range m {
			cm, ok := asMap(comp)
			if !ok {
				return nil, fmt.Errorf("%w: %s is not a map", ErrInvalidNesting, prefix)
			}
			settings := make(map[string]Setting, len(cm))
			for base, raw := range cm {
				s, err := settingFromMap(prefix+base, raw)
				if err != nil {
					return nil, err
				}
				settings[base] = s
			}
			out[prefix] = settings
		}
		return out, nil
	case 2:
		settings := make(map[string]Setting, len(m))
		for name, raw := range m {
			s, err := settingFromMap(name, raw)
			if err != nil {
				return nil, err
			}
			settings[name] = s
		}
		return Inits{"": settings}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidNesting, d)
	}
}

func settingFromMap(name string, raw any) (Setting, error) {
	var s Setting
	m, ok := asMap(raw)
	if !ok {
		return s, fmt.Errorf("%w: %s is not a mapping", ErrInvalidNesting, name)
	}
	for key, v := range m {
		switch key {
		case "expr":
			str, ok := v.(string)
			if !ok {
				return s, fmt.Errorf("params: %s.expr must be a string", name)
			}
			s.Expr = String(str)
		case "vary":
			switch b := v.(type) {
			case bool:
				s.Vary = Bool(b)
			default:
				f, ok := toFloat(v)
				if !ok {
					return s, fmt.Errorf("params: %s.vary must be a bool or number", name)
				}
				s.Vary = Bool(f != 0)
			}
		default:
			f, ok := toFloat(v)
			if !ok {
				return s, fmt.Errorf("params: %s.%s must be a number", name, key)
			}
			if err := s.assign(key, f); err != nil {
				return s, err
			}
		}
	}
	return s, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	case Inits:
		out := make(map[string]any, len(m))
		for k, comp := range m {
			inner := make(map[string]any, len(comp))
			for base, s := range comp {
				inner[base] = s.asMap()
			}
			out[k] = inner
		}
		return out, true
	}
	return nil, false
}

func (s Setting) asMap() map[string]any {
	out := make(map[string]any)
	if s.Value != nil {
		out["value"] = *s.Value
	}
	if s.Min != nil {
		out["min"] = *s.Min
	}
	if s.Max != nil {
		out["max"] = *s.Max
	}
	if s.Vary != nil {
		out["vary"] = *s.Vary
	}
	if s.Expr != nil {
		out["expr"] = *s.Expr
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
