package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vincenzocorso/forest-fire-simulation/internal/sims/wildfire"
)

func (a *app) paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "params",
		Short:             "Print the effective model parameters",
		DisableAutoGenTag: true,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := wildfire.Open(a.cfg.GetString("data"), a.modelConfig(), a.log)
			if err != nil {
				return err
			}
			defer m.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, g := range m.Parameters().Groups {
				fmt.Fprintf(tw, "%s\n", g.Name)
				for _, p := range g.Params {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Key, p.Label, p.Value)
				}
			}
			return tw.Flush()
		},
	}
}
