package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pesfit/config"
	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/fitter"
	"github.com/cwbudde/algo-pesfit/fit/params"
	"github.com/cwbudde/algo-pesfit/fit/preprocess"
	"github.com/cwbudde/algo-pesfit/report"
)

type fitFlags struct {
	configPath string
	out        string
	report     string
	backend    string
	parallel   bool
	workers    int
	nspec      int
}

// patchRunner is the part of PatchFitter and DistributedFitter the CLI uses.
type patchRunner interface {
	SetInits(persist params.Inits, bands dataio.Array, r preprocess.Range, offset float64) error
	NSpec() int
	Results() []*fitter.ModelResult
	Table() *dataio.Table
	FitSpectrum(ctx context.Context, n int, opts ...fitter.RunOption) (*fitter.ModelResult, error)
}

func newFitCmd() *cobra.Command {
	var f fitFlags

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit every spectrum of a data patch",
		Long: `Fit the spectra named in the run configuration and write the results
table (spec_id, parameters, standard errors and derived quantities).
The output format follows the file extension: .csv, .json, .yaml or .db.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			return runFit(cmd.Context(), cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Run configuration (YAML)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Results file (overrides output.path)")
	cmd.Flags().StringVar(&f.report, "report", "", "Append a text report per spectrum to this file")
	cmd.Flags().StringVar(&f.backend, "backend", "", "Parallel backend: goroutines or singles")
	cmd.Flags().BoolVar(&f.parallel, "parallel", true, "Fit spectra in parallel")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Number of workers (default: number of CPUs)")
	cmd.Flags().IntVarP(&f.nspec, "nspec", "n", 0, "Number of spectra to fit (default: all)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// loadConfig reads the configuration and applies the flags the user set.
func loadConfig(cmd *cobra.Command, f *fitFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Path = f.out
	}
	if flags.Changed("report") {
		cfg.Output.Report = f.report
	}
	if flags.Changed("backend") {
		cfg.Run.Backend = f.backend
	}
	if flags.Changed("parallel") {
		cfg.Run.Parallel = f.parallel
	}
	if flags.Changed("workers") {
		cfg.Run.Workers = f.workers
	}
	if flags.Changed("nspec") {
		cfg.Run.NSpec = f.nspec
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newRunner loads the data and prepares a fitter with the persistent and
// band initialisation applied.
func newRunner(cfg *config.Config) (patchRunner, []fitter.RunOption, error) {
	ds, err := cfg.LoadData()
	if err != nil {
		return nil, nil, err
	}
	fitOpts, err := cfg.FitOptions()
	if err != nil {
		return nil, nil, err
	}
	fitOpts = append(fitOpts, fitter.WithLogger(slog.Default()))

	var r patchRunner
	if cfg.Run.Parallel {
		r, err = fitter.NewDistributedFitter(ds.X, ds.Spectra, fitOpts...)
	} else {
		r, err = fitter.NewPatchFitter(ds.X, ds.Spectra, fitOpts...)
	}
	if err != nil {
		return nil, nil, err
	}

	inits, err := cfg.InitSettings()
	if err != nil {
		return nil, nil, err
	}
	if err := r.SetInits(inits, ds.Bands, cfg.Data.Range, cfg.Data.Offset); err != nil {
		return nil, nil, err
	}

	runOpts := cfg.RunOptions()
	if ds.Bands.Size() == 0 && cfg.Run.IncludeVary {
		slog.Warn("no band initialisation configured, band centers keep their initial values")
		runOpts = append(runOpts, fitter.WithIncludeVary(false))
	}
	return r, runOpts, nil
}

// progressLogger logs every tenth of the run.
func progressLogger() fitter.ProgressFunc {
	last := -1
	return func(done, total int) {
		if step := done * 10 / total; step != last {
			last = step
			slog.Info("fitting", "done", done, "total", total)
		}
	}
}

func runFit(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	r, runOpts, err := newRunner(cfg)
	if err != nil {
		return err
	}
	runOpts = append(runOpts, fitter.WithProgress(progressLogger()))

	slog.Info("starting fit", "spectra", r.NSpec(), "parallel", cfg.Run.Parallel, "method", cfg.Fit.Method)
	switch f := r.(type) {
	case *fitter.DistributedFitter:
		err = f.ParallelFit(ctx, runOpts...)
	case *fitter.PatchFitter:
		err = f.SequentialFit(ctx, runOpts...)
	}
	if err != nil {
		return fmt.Errorf("fitting: %w", err)
	}

	if err := dataio.SaveTable(cfg.Output.Path, r.Table(), cfg.Output.Table); err != nil {
		return err
	}
	if cfg.Output.Report != "" {
		for _, res := range r.Results() {
			if err := report.PrintFitResult(cfg.Output.Report, res); err != nil {
				return err
			}
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "fitted %d spectra, results written to %s\n", len(r.Results()), cfg.Output.Path)
	return err
}
