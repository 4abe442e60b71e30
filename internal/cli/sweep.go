package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/vincenzocorso/forest-fire-simulation/internal/sims/wildfire"
	"github.com/vincenzocorso/forest-fire-simulation/internal/sweep"
)

func (a *app) sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Grid-search alpha, c1 and c2 against the burned mask",
		Long: `sweep runs one combined-rule model per point of the alpha × c1 × c2
grid, keeps the best F1 each point reaches within --steps steps and appends
every result to --logfile.`,
		DisableAutoGenTag: true,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			space, err := a.space()
			if err != nil {
				return err
			}
			cfg := a.modelConfig()
			sc, rain, err := wildfire.Source(a.cfg.GetString("data"), cfg, a.log)
			if err != nil {
				return err
			}
			cfg.Width, cfg.Height = sc.Width, sc.Height

			r := &sweep.Runner{
				Base:    cfg,
				Inputs:  wildfire.InputsFromScenario(sc),
				Rain:    rain,
				Steps:   a.cfg.GetInt("steps"),
				Workers: a.cfg.GetInt("jobs"),
				Log:     a.log,
			}
			id, results, err := r.Run(cmd.Context(), space.Points())
			if err != nil {
				return err
			}

			f, err := os.OpenFile(a.cfg.GetString("logfile"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			if err := sweep.WriteLog(f, id, results); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "rank\talpha\tc1\tc2\tstep\tf1\tprecision\trecall")
			for i, res := range sweep.Ranked(results) {
				if i == 5 {
					break
				}
				fmt.Fprintf(tw, "%d\t%g\t%g\t%g\t%d\t%.4f\t%.4f\t%.4f\n", i+1,
					res.Alpha, res.C1, res.C2, res.BestStep, res.Best.F1, res.Best.Precision, res.Best.Recall)
			}
			return tw.Flush()
		},
	}
}

// space parses the candidate lists.
func (a *app) space() (sweep.Space, error) {
	var s sweep.Space
	var err error
	if s.Alpha, err = parseFloats("alphas", a.cfg.GetStringSlice("alphas")); err != nil {
		return s, err
	}
	if s.C1, err = parseFloats("c1s", a.cfg.GetStringSlice("c1s")); err != nil {
		return s, err
	}
	if s.C2, err = parseFloats("c2s", a.cfg.GetStringSlice("c2s")); err != nil {
		return s, err
	}
	return s, nil
}

func parseFloats(name string, vals []string) ([]float64, error) {
	if len(vals) == 0 {
		return nil, fmt.Errorf("firesim: %s is empty", name)
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("firesim: %s: %w", name, err)
		}
		out[i] = f
	}
	return out, nil
}

func formatFloats(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = cast.ToString(v)
	}
	return out
}
