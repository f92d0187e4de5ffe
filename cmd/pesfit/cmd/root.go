// Package cmd provides the CLI commands for pesfit.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pesfit/internal/logging"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=v1.2.3".
var Version = "dev"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var (
		logLevel string
		noColor  bool
	)

	cmd := &cobra.Command{
		Use:   "pesfit",
		Short: "Multi-peak lineshape fitting for photoemission band mapping",
		Long: `pesfit reconstructs band dispersions from photoemission data by fitting
a multi-peak lineshape model to every energy distribution curve of a
data patch, seeded by approximate band positions.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			color := !noColor && os.Getenv("NO_COLOR") == ""
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, color))
			return nil
		},
	}
	cmd.SetVersionTemplate("pesfit version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured log output")

	cmd.AddCommand(newFitCmd())
	cmd.AddCommand(newModelsCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newPlotCmd())
	cmd.AddCommand(newBandPathCmd())
	cmd.AddCommand(newMetricsCmd())

	return cmd
}

// Execute runs the root command, cancelling on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
