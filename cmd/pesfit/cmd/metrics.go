package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/metrics"
)

func newMetricsCmd() *cobra.Command {
	var (
		truthPath, truthKey, varname, table string
		nband                               int
		shape                               []int
	)

	cmd := &cobra.Command{
		Use:   "metrics [results...]",
		Short: "Score fit results against ground-truth band positions",
		Long: `Compare lp1_<var> … lpN_<var> of each results file with a ground-truth
array of shape nband × shape and print the error norm and instability.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := metrics.NewGroupMetrics(nband, args...)
			if err != nil {
				return err
			}
			g.Table = table
			if err := g.LoadAll(varname, shape...); err != nil {
				return err
			}

			arrs, err := dataio.LoadArrays(truthPath, truthKey)
			if err != nil {
				return err
			}
			truth, err := arrs[truthKey].Reshape(g.Results()[0].Shape...)
			if err != nil {
				return fmt.Errorf("ground truth: %w", err)
			}

			rmse, err := g.GroupRMSE(truth)
			if err != nil {
				return err
			}
			instab, err := g.GroupInstability(truth)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if _, err := fmt.Fprintf(tw, "Results\tRMSE\tInstability\n-------\t----\t-----------\n"); err != nil {
				return err
			}
			for i, f := range g.Files {
				if _, err := fmt.Fprintf(tw, "%s\t%.6g\t%.6g\n", f, rmse[i], instab[i]); err != nil {
					return err
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&truthPath, "truth", "", "Ground-truth array file (JSON or YAML)")
	cmd.Flags().StringVar(&truthKey, "truth-key", "bands", "Key of the ground-truth array")
	cmd.Flags().StringVar(&varname, "var", "center", "Parameter base name to compare")
	cmd.Flags().StringVar(&table, "table", "", "SQLite table name (default: fitres)")
	cmd.Flags().IntVar(&nband, "nband", 2, "Number of bands")
	cmd.Flags().IntSliceVar(&shape, "shape", nil, "Shape of each band (default: number of rows)")
	_ = cmd.MarkFlagRequired("truth")

	return cmd
}
