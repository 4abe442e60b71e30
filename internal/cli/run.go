package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vincenzocorso/forest-fire-simulation/internal/sims/wildfire"
)

var metricsHeader = []string{"step", "day", "burning", "burned", "f1", "precision", "recall"}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Simulate a scenario and report per-step metrics",
		Long: `run advances the model for --steps steps and writes one CSV record per
step. Scores are left empty when the scenario has no burned mask.`,
		DisableAutoGenTag: true,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps := a.cfg.GetInt("steps")
			if steps <= 0 {
				return fmt.Errorf("firesim: steps must be positive, got %d", steps)
			}
			log := a.log.WithField("run", uuid.NewString())
			m, err := wildfire.Open(a.cfg.GetString("data"), a.modelConfig(), log)
			if err != nil {
				return err
			}
			defer m.Close()

			out := cmd.OutOrStdout()
			if path := a.cfg.GetString("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			log.WithFields(logrus.Fields{
				"rule":    m.Rule().Name(),
				"width":   m.Size().W,
				"height":  m.Size().H,
				"steps":   steps,
				"max_ros": m.MaxRateOfSpread(),
			}).Info("run started")

			last, err := writeMetrics(out, m, steps)
			if err != nil {
				return err
			}
			entry := log.WithFields(logrus.Fields{"burned": last.Burned, "burning": last.Burning})
			if last.Score != nil {
				entry = entry.WithField("f1", last.Score.F1)
			}
			entry.Info("run finished")
			return nil
		},
	}
}

func writeMetrics(out io.Writer, m *wildfire.Model, steps int) (wildfire.Metrics, error) {
	w := csv.NewWriter(out)
	if err := w.Write(metricsHeader); err != nil {
		return wildfire.Metrics{}, err
	}
	var last wildfire.Metrics
	var stepErr error
	for i := 0; i < steps; i++ {
		met, err := m.Advance()
		if err != nil {
			stepErr = err
			break
		}
		last = met
		rec := []string{
			strconv.Itoa(met.Step),
			strconv.Itoa(met.Day),
			strconv.Itoa(met.Burning),
			strconv.Itoa(met.Burned),
			"", "", "",
		}
		if met.Score != nil {
			rec[4] = strconv.FormatFloat(met.Score.F1, 'f', 6, 64)
			rec[5] = strconv.FormatFloat(met.Score.Precision, 'f', 6, 64)
			rec[6] = strconv.FormatFloat(met.Score.Recall, 'f', 6, 64)
		}
		if err := w.Write(rec); err != nil {
			return last, err
		}
	}
	w.Flush()
	return last, errors.Join(stepErr, w.Error())
}
