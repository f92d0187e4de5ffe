package config

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/preprocess"
)

// Dataset is the input of a fitting run.
type Dataset struct {
	X       []float64
	Spectra dataio.Array
	// Bands is empty when no band initialisation is configured.
	Bands dataio.Array
}

// LoadData reads the energies, spectra and band positions named in the data
// section, then applies minimum subtraction and smoothing when enabled.
func (c *Config) LoadData() (*Dataset, error) {
	d := c.Data
	if d.Path == "" {
		return nil, fmt.Errorf("data.path is required")
	}
	arrs, err := dataio.LoadArrays(d.Path, d.EnergyKey, d.SpectraKey)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{
		X:       arrs[d.EnergyKey].Data,
		Spectra: arrs[d.SpectraKey],
	}
	if ds.Spectra.Len() != len(ds.X) {
		return nil, fmt.Errorf("%w: %d energies, spectra of length %d", preprocess.ErrLengthMismatch, len(ds.X), ds.Spectra.Len())
	}

	if d.BandsKey != "" {
		path := d.BandsPath
		if path == "" {
			path = d.Path
		}
		bands, err := dataio.LoadArrays(path, d.BandsKey)
		if err != nil {
			return nil, err
		}
		ds.Bands = bands[d.BandsKey]
	}

	if d.SubtractMin {
		preprocess.SubtractMin(ds.Spectra)
	}
	if d.SmoothSigma > 0 {
		if err := preprocess.SmoothArray(ds.Spectra, d.SmoothSigma); err != nil {
			return nil, err
		}
	}
	slog.Debug("loaded data", "path", d.Path, "spectra", ds.Spectra.Shape, "bands", ds.Bands.Shape)
	return ds, nil
}
