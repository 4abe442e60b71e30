//go:build ebiten

// Command fireview shows a wildfire simulation in a window.
package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vincenzocorso/forest-fire-simulation/internal/app"
	"github.com/vincenzocorso/forest-fire-simulation/internal/sims/wildfire"
)

func main() {
	_ = godotenv.Load()
	log := logrus.StandardLogger()

	cfg := app.NewConfig()
	cfg.Bind(pflag.CommandLine)
	def := wildfire.DefaultConfig()
	dir := pflag.StringP("data", "d", os.Getenv("FIRESIM_DATA"), "scenario directory; empty generates synthetic terrain")
	rule := pflag.StringP("rule", "r", def.Rule, "propagation rule")
	slope := pflag.String("slope", "", "slope function overriding the rule's default")
	width := pflag.Int("width", 200, "synthetic grid width")
	height := pflag.Int("height", 200, "synthetic grid height")
	workers := pflag.IntP("workers", "w", 0, "compute workers: 1 is sequential, 0 uses every CPU")
	level := pflag.String("log-level", "info", "log level")
	pflag.Parse()

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(lvl)

	mc := def
	mc.Rule = *rule
	mc.Slope = *slope
	mc.Width, mc.Height = *width, *height
	mc.Seed = cfg.Seed
	mc.Workers = *workers
	m, err := wildfire.Open(*dir, mc, log)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	game := app.New(m, cfg)
	size := m.Size()

	ebiten.SetWindowTitle("fireview: " + m.Rule().Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
