package wildfire

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
)

// Params holds the calibration constants of the propagation rules.
type Params struct {
	// Alpha is the slope steepness parameter.
	Alpha           float64
	C1              float64
	C2              float64
	GustProbability float64
}

// Wind returns the wind calculator configured by p.
func (p Params) Wind() factors.Wind {
	return factors.Wind{GustProbability: p.GustProbability, C1: p.C1, C2: p.C2}
}

// Config controls the wildfire simulation.
type Config struct {
	Width  int
	Height int

	Seed int64

	// Rule names a registered rule configuration.
	Rule string
	// Slope overrides the rule's slope function when non-empty.
	Slope string

	// Workers selects the scheduler: 1 runs sequentially, 0 uses GOMAXPROCS
	// workers, anything larger sizes the pool.
	Workers   int
	BatchSize int

	Params Params

	// Log receives the model's entries from construction on. Nil uses the
	// standard logger.
	Log logrus.FieldLogger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	w := factors.DefaultWind()
	return Config{
		Width:     250,
		Height:    250,
		Seed:      1337,
		Rule:      "combined",
		Workers:   1,
		BatchSize: 1024,
		Params: Params{
			Alpha:           45,
			C1:              w.C1,
			C2:              w.C2,
			GustProbability: w.GustProbability,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := cast.ToIntE(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := cast.ToIntE(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := cast.ToInt64E(v); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["rule"]; ok && v != "" {
		c.Rule = v
	}
	if v, ok := cfg["slope"]; ok {
		c.Slope = v
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := cast.ToIntE(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["batch"]; ok {
		if parsed, err := cast.ToIntE(v); err == nil && parsed > 0 {
			c.BatchSize = parsed
		}
	}
	if v, ok := cfg["alpha"]; ok {
		if parsed, err := cast.ToFloat64E(v); err == nil {
			c.Params.Alpha = parsed
		}
	}
	if v, ok := cfg["c1"]; ok {
		if parsed, err := cast.ToFloat64E(v); err == nil && parsed >= 0 {
			c.Params.C1 = parsed
		}
	}
	if v, ok := cfg["c2"]; ok {
		if parsed, err := cast.ToFloat64E(v); err == nil && parsed >= 0 {
			c.Params.C2 = parsed
		}
	}
	if v, ok := cfg["gust"]; ok {
		if parsed, err := cast.ToFloat64E(v); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.GustProbability = parsed
		}
	}
	return c
}
