package dataio

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadArrays reads named arrays from a JSON or YAML document. When keys are
// given only those are returned and each must be present.
func LoadArrays(path string, keys ...string) (map[string]Array, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	all := make(map[string]Array)
	switch format {
	case FormatJSON:
		err = json.Unmarshal(b, &all)
	case FormatYAML:
		err = yaml.Unmarshal(b, &all)
	default:
		return nil, fmt.Errorf("%w: arrays cannot be read from %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	if len(keys) == 0 {
		return all, nil
	}
	out := make(map[string]Array, len(keys))
	for _, k := range keys {
		a, ok := all[k]
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingKey, k, path)
		}
		out[k] = a
	}
	return out, nil
}

// SaveArrays writes named arrays as a JSON or YAML document.
func SaveArrays(path string, arrays map[string]Array) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var b []byte
	switch format {
	case FormatJSON:
		b, err = json.Marshal(arrays)
	case FormatYAML:
		b, err = yaml.Marshal(arrays)
	default:
		return fmt.Errorf("%w: arrays cannot be written to %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return os.WriteFile(path, b, 0o644)
}
