package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pesfit/fit/lineshape"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the available lineshapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if _, err := fmt.Fprintf(tw, "Name\tKind\tParameters\n----\t----\t----------\n"); err != nil {
				return err
			}
			for _, p := range lineshape.Profiles() {
				names := make([]string, len(p.Params()))
				for i, ps := range p.Params() {
					names[i] = ps.Name
				}
				if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name(), p.Kind(), strings.Join(names, ", ")); err != nil {
					return err
				}
			}
			return tw.Flush()
		},
	}
}
