package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/fitter"
)

func newReportCmd() *cobra.Command {
	var (
		results string
		table   string
		specID  int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print stored fit results",
		Long: `Print the parameters of a results table written by 'pesfit fit',
one block per spectrum. Use --spec-id to select a single spectrum.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := dataio.LoadTable(results, table)
			if err != nil {
				return err
			}
			return writeStoredResults(cmd.OutOrStdout(), t, specID)
		},
	}

	cmd.Flags().StringVarP(&results, "results", "r", "", "Results file")
	cmd.Flags().StringVar(&table, "table", "", "SQLite table name (default: fitres)")
	cmd.Flags().IntVar(&specID, "spec-id", -1, "Spectrum to print (default: all)")
	_ = cmd.MarkFlagRequired("results")

	return cmd
}

func writeStoredResults(w io.Writer, t *dataio.Table, specID int) error {
	ids, err := t.Column(dataio.SpecIDColumn)
	if err != nil {
		return err
	}
	found := false
	for r, id := range ids {
		if specID >= 0 && int(id) != specID {
			continue
		}
		found = true
		rec := t.Record(r)
		if _, err := fmt.Fprintf(w, "[[spec_id %d]]\n", int(id)); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
		for _, c := range t.Columns {
			if c == dataio.SpecIDColumn || strings.HasSuffix(c, fitter.StderrSuffix) {
				continue
			}
			line := fmt.Sprintf("%.7g", rec[c])
			if s, ok := rec[c+fitter.StderrSuffix]; ok && !math.IsNaN(s) {
				line += fmt.Sprintf(" +/- %.7g", s)
			}
			if _, err := fmt.Fprintf(tw, "    %s:\t%s\n", c, line); err != nil {
				return err
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("spec_id %d not in results", specID)
	}
	return nil
}
