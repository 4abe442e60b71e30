package app

import "github.com/spf13/pflag"

// Config represents the viewer's command-line parameters.
type Config struct {
	Scale int
	TPS   int
	// Rate is the number of simulation steps per second.
	Rate     int
	Seed     int64
	HUDWidth int
	// Brush is the ignition radius, in cells, of a mouse click.
	Brush float64
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 3, TPS: 60, Rate: 10, Seed: 1337, HUDWidth: 280, Brush: 2}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second")
	fs.IntVar(&c.Rate, "rate", c.Rate, "simulation steps per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the parameter panel in pixels, 0 hides it")
	fs.Float64Var(&c.Brush, "brush", c.Brush, "ignition radius of a mouse click, in cells")
}
