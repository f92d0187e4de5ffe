package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/report"
)

func newPlotCmd() *cobra.Command {
	var (
		f        fitFlags
		specID   int
		noComps  bool
		printout bool
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Fit one spectrum and plot the result",
		Long: `Fit a single spectrum with the run configuration and draw its
components, best fit and data. The image format follows the extension of
--out (png, svg or pdf).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			r, runOpts, err := newRunner(cfg)
			if err != nil {
				return err
			}
			res, err := r.FitSpectrum(cmd.Context(), specID, runOpts...)
			if err != nil {
				return err
			}
			if printout {
				if err := report.Write(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			}
			p, err := report.PlotFitResult(res,
				report.WithTitle(fmt.Sprintf("spectrum %d", specID)),
				report.WithComponents(!noComps))
			if err != nil {
				return err
			}
			return report.Save(p, f.out)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Run configuration (YAML)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "fit.png", "Image file")
	cmd.Flags().IntVar(&specID, "spec-id", 0, "Spectrum to fit")
	cmd.Flags().BoolVar(&noComps, "no-components", false, "Draw only the best fit and the data")
	cmd.Flags().BoolVar(&printout, "print", false, "Also print the fit report")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func newBandPathCmd() *cobra.Command {
	var (
		data, key, energyKey, out string
		symbols                   []string
		indices                   []int
		erange                    []float64
		lines, plain              bool
		vmax                      float64
	)

	cmd := &cobra.Command{
		Use:   "bandpath",
		Short: "Plot an energy-momentum cut along a high-symmetry path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys := []string{key}
			if energyKey != "" {
				keys = append(keys, energyKey)
			}
			arrs, err := dataio.LoadArrays(data, keys...)
			if err != nil {
				return err
			}
			var evals []float64
			if energyKey != "" {
				evals = arrs[energyKey].Data
			}
			p, err := report.PlotBandPath(arrs[key], symbols, erange, evals, indices,
				report.WithSymmetryLines(lines),
				report.WithOverline(!plain),
				report.WithColorRange(0, vmax))
			if err != nil {
				return err
			}
			if err := report.Save(p, out, report.WithSize(10*vg.Inch, 6*vg.Inch)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "path %s written to %s\n", strings.Join(symbols, "-"), out)
			return err
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Array file (JSON or YAML)")
	cmd.Flags().StringVar(&key, "key", "paths", "Key of the energy × momentum array")
	cmd.Flags().StringVar(&energyKey, "energy-key", "", "Key of the energy values, used when --erange is not given")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "High-symmetry point labels")
	cmd.Flags().IntSliceVar(&indices, "indices", nil, "Momentum indices of the high-symmetry points")
	cmd.Flags().Float64SliceVar(&erange, "erange", nil, "Lower and upper energy")
	cmd.Flags().BoolVar(&lines, "lines", false, "Draw vertical lines at the high-symmetry points")
	cmd.Flags().BoolVar(&plain, "no-overline", false, "Do not overline the point labels")
	cmd.Flags().Float64Var(&vmax, "vmax", 0.5, "Intensity mapped to the darkest colour")
	cmd.Flags().StringVarP(&out, "out", "o", "bandpath.png", "Image file")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}
