// Package cli implements the firesim command line.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vincenzocorso/forest-fire-simulation/internal/sims/wildfire"
	sweeppkg "github.com/vincenzocorso/forest-fire-simulation/internal/sweep"
)

// Version is the firesim release.
const Version = "0.3.0"

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// app carries the configuration shared by every subcommand.
type app struct {
	cfg *viper.Viper
	log *logrus.Logger
}

// NewRoot builds the firesim command tree with a fresh configuration.
// Configuration can come from a file (--config), from FIRESIM_* environment
// variables or from flags, in increasing order of precedence.
func NewRoot() *cobra.Command {
	a := &app{cfg: viper.New(), log: logrus.New()}
	a.cfg.SetEnvPrefix("FIRESIM")
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.cfg.AutomaticEnv()

	root := &cobra.Command{
		Use:   "firesim",
		Short: "A cellular automaton wildfire simulator.",
		Long: `firesim propagates a wildfire over a rectangular grid of cells using
terrain slope, wind and rain. Scenarios are read from a directory (--data)
or generated from Perlin noise when no directory is given.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	run := a.runCmd()
	sweep := a.sweepCmd()
	params := a.paramsCmd()
	root.AddCommand(run, sweep, params, versionCmd())

	modelSets := []*pflag.FlagSet{run.Flags(), sweep.Flags(), params.Flags()}
	def := wildfire.DefaultConfig()
	space := sweeppkg.DefaultSpace()
	options := []option{
		{name: "config", usage: "configuration file (toml, yaml or json)", defaultVal: "", flagsets: []*pflag.FlagSet{root.PersistentFlags()}},
		{name: "log-level", usage: "log level: debug, info, warn or error", defaultVal: "info", flagsets: []*pflag.FlagSet{root.PersistentFlags()}},
		{name: "log-format", usage: "log format: text or json", defaultVal: "text", flagsets: []*pflag.FlagSet{root.PersistentFlags()}},
		{name: "data", shorthand: "d", usage: "scenario directory; empty generates synthetic terrain", defaultVal: "", flagsets: modelSets},
		{name: "rule", shorthand: "r", usage: "propagation rule: " + strings.Join(wildfire.RuleNames(), ", "), defaultVal: def.Rule, flagsets: modelSets},
		{name: "slope", usage: "slope function overriding the rule's default", defaultVal: "", flagsets: modelSets},
		{name: "width", usage: "synthetic grid width", defaultVal: def.Width, flagsets: modelSets},
		{name: "height", usage: "synthetic grid height", defaultVal: def.Height, flagsets: modelSets},
		{name: "seed", usage: "seed for synthetic terrain and wind gusts", defaultVal: int(def.Seed), flagsets: modelSets},
		{name: "workers", shorthand: "w", usage: "compute workers per model: 1 is sequential, 0 uses every CPU", defaultVal: def.Workers, flagsets: []*pflag.FlagSet{run.Flags(), params.Flags()}},
		{name: "batch", usage: "cells per scheduler batch", defaultVal: def.BatchSize, flagsets: []*pflag.FlagSet{run.Flags(), params.Flags()}},
		{name: "alpha", usage: "slope steepness", defaultVal: def.Params.Alpha, flagsets: []*pflag.FlagSet{run.Flags(), params.Flags()}},
		{name: "c1", usage: "wind speed weight", defaultVal: def.Params.C1, flagsets: []*pflag.FlagSet{run.Flags(), params.Flags()}},
		{name: "c2", usage: "wind alignment weight", defaultVal: def.Params.C2, flagsets: []*pflag.FlagSet{run.Flags(), params.Flags()}},
		{name: "gust", usage: "probability that a cell samples the gust speed", defaultVal: def.Params.GustProbability, flagsets: modelSets},
		{name: "steps", shorthand: "n", usage: "number of steps to simulate", defaultVal: 50, flagsets: []*pflag.FlagSet{run.Flags(), sweep.Flags()}},
		{name: "out", shorthand: "o", usage: "per-step metrics CSV; empty writes to stdout", defaultVal: "", flagsets: []*pflag.FlagSet{run.Flags()}},
		{name: "jobs", shorthand: "j", usage: "models evaluated concurrently", defaultVal: runtime.NumCPU(), flagsets: []*pflag.FlagSet{sweep.Flags()}},
		{name: "logfile", usage: "file the sweep results are appended to", defaultVal: "sweep.log", flagsets: []*pflag.FlagSet{sweep.Flags()}},
		{name: "alphas", usage: "slope steepness values to try", defaultVal: formatFloats(space.Alpha), flagsets: []*pflag.FlagSet{sweep.Flags()}},
		{name: "c1s", usage: "wind speed weights to try", defaultVal: formatFloats(space.C1), flagsets: []*pflag.FlagSet{sweep.Flags()}},
		{name: "c2s", usage: "wind alignment weights to try", defaultVal: formatFloats(space.C2), flagsets: []*pflag.FlagSet{sweep.Flags()}},
	}
	for _, o := range options {
		a.bind(o)
	}
	return root
}

func (a *app) bind(o option) {
	for i, set := range o.flagsets {
		if i != 0 { // The flag is shared, not redefined.
			set.AddFlag(o.flagsets[0].Lookup(o.name))
			continue
		}
		switch v := o.defaultVal.(type) {
		case string:
			set.StringP(o.name, o.shorthand, v, o.usage)
		case []string:
			set.StringSliceP(o.name, o.shorthand, v, o.usage)
		case bool:
			set.BoolP(o.name, o.shorthand, v, o.usage)
		case int:
			set.IntP(o.name, o.shorthand, v, o.usage)
		case float64:
			set.Float64P(o.name, o.shorthand, v, o.usage)
		default:
			panic(fmt.Sprintf("cli: option %q has unsupported type %T", o.name, v))
		}
	}
	if err := a.cfg.BindPFlag(o.name, o.flagsets[0].Lookup(o.name)); err != nil {
		panic(err)
	}
}

// setup reads the configuration file and configures logging.
func (a *app) setup(stderr io.Writer) error {
	if path := a.cfg.GetString("config"); path != "" {
		a.cfg.SetConfigFile(path)
		if err := a.cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("firesim: problem reading configuration file: %w", err)
		}
	}
	level, err := logrus.ParseLevel(a.cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("firesim: %w", err)
	}
	a.log.SetLevel(level)
	a.log.SetOutput(stderr)
	switch f := a.cfg.GetString("log-format"); f {
	case "text":
		a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		a.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("firesim: unknown log format %q", f)
	}
	return nil
}

// modelConfig assembles the wildfire configuration from the bound options.
func (a *app) modelConfig() wildfire.Config {
	c := wildfire.DefaultConfig()
	c.Width = a.cfg.GetInt("width")
	c.Height = a.cfg.GetInt("height")
	c.Seed = a.cfg.GetInt64("seed")
	c.Rule = a.cfg.GetString("rule")
	c.Slope = a.cfg.GetString("slope")
	c.Workers = a.cfg.GetInt("workers")
	if b := a.cfg.GetInt("batch"); b > 0 {
		c.BatchSize = b
	}
	c.Params.Alpha = a.cfg.GetFloat64("alpha")
	c.Params.C1 = a.cfg.GetFloat64("c1")
	c.Params.C2 = a.cfg.GetFloat64("c2")
	c.Params.GustProbability = a.cfg.GetFloat64("gust")
	return c
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the version number",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("firesim v%s\n", Version)
		},
	}
}
