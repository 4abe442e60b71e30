package wildfire

import (
	"github.com/sirupsen/logrus"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
	"github.com/vincenzocorso/forest-fire-simulation/internal/data"
)

// Source loads the scenario in dir, or Perlin terrain sized by cfg when dir is
// empty. The returned rain source feeds NewModel; it is nil for a scenario
// without a rain directory.
func Source(dir string, cfg Config, log logrus.FieldLogger) (*data.Scenario, data.RainSource, error) {
	if dir == "" {
		syn := data.DefaultSynthetic()
		syn.Width = cfg.Width
		syn.Height = cfg.Height
		syn.Seed = cfg.Seed
		return syn.Scenario(), syn, nil
	}
	l := data.NewLoader(dir)
	if log != nil {
		l.Log = log
	}
	sc, err := l.Load()
	if err != nil {
		return nil, nil, err
	}
	if !l.HasRain() {
		l.Log.WithField("scenario", sc.Name).Debug("no rain directory; running dry")
		return sc, nil, nil
	}
	return sc, l, nil
}

// Open builds a model for the scenario in dir. The grid takes the scenario's
// dimensions.
func Open(dir string, cfg Config, log logrus.FieldLogger) (*Model, error) {
	sc, rain, err := Source(dir, cfg, log)
	if err != nil {
		return nil, err
	}
	cfg.Width, cfg.Height = sc.Width, sc.Height
	if log != nil {
		cfg.Log = log
	}
	return NewModel(cfg, InputsFromScenario(sc), rain)
}

// NewSynthetic builds a model on Perlin terrain sized by cfg.
func NewSynthetic(cfg Config) (*Model, error) {
	return Open("", cfg, nil)
}

func init() {
	core.Register("wildfire", func(cfg map[string]string) (core.Sim, error) {
		return NewSynthetic(FromMap(cfg))
	})
}
