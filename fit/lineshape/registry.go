package lineshape

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

var registry = map[string]Profile{
	"gaussian":    Gaussian{},
	"lorentzian":  Lorentzian{},
	"voigt":       Voigt{},
	"pseudovoigt": PseudoVoigt{},
	"constant":    Constant{},
	"linear":      Linear{},
	"quadratic":   Quadratic{},
	"exponential": Exponential{},
}

// Lookup resolves a profile by name. "Voigt", "voigt" and "VoigtModel" are
// equivalent.
func Lookup(name string) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, "model")
	if p, ok := registry[key]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Names returns the registered profile names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, p := range registry {
		out = append(out, p.Name())
	}
	sort.Strings(out)
	return out
}

// Profiles returns all registered profiles sorted by name.
func Profiles() []Profile {
	out := make([]Profile, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Generate builds a multipeak model from a peak specification such as
// {"Voigt": 2} and a background name. An empty or "None" background means
// no background; an unknown background name is ignored with a warning.
func Generate(peaks map[string]int, background string, opts ...Option) (*MultipeakModel, error) {
	if len(peaks) == 0 {
		return nil, ErrNoPeaks
	}
	if len(peaks) > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrMultiplePeakTypes, len(peaks))
	}

	var (
		peakName string
		count    int
	)
	for k, v := range peaks {
		peakName, count = k, v
	}
	peak, err := Lookup(peakName)
	if err != nil {
		return nil, err
	}

	if bg := strings.TrimSpace(background); bg != "" && !strings.EqualFold(bg, "none") {
		p, err := Lookup(bg)
		if err != nil {
			slog.Warn("ignoring unknown background", "background", bg)
		} else {
			opts = append([]Option{WithBackground(p)}, opts...)
		}
	}

	return NewMultipeakModel(peak, count, opts...)
}
