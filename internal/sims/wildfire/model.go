package wildfire

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
	"github.com/vincenzocorso/forest-fire-simulation/internal/data"
	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
	"github.com/vincenzocorso/forest-fire-simulation/internal/score"
)

// Inputs are the dense arrays handed over by a loader before the first step.
// Matrices are height×width with row 0 at the visual top.
type Inputs struct {
	RateOfSpread mat.Matrix
	Height       mat.Matrix
	// Burned is the optional ground-truth mask.
	Burned mat.Matrix

	Weather   []factors.WeatherRow
	Ignitions []data.Ignition

	StartDay    int
	StepsPerDay int
}

// InputsFromScenario adapts a loaded scenario.
func InputsFromScenario(sc *data.Scenario) Inputs {
	in := Inputs{
		RateOfSpread: sc.RateOfSpread,
		Height:       sc.Elevation,
		Weather:      sc.Weather,
		Ignitions:    sc.Ignitions,
		StartDay:     sc.StartDay,
		StepsPerDay:  sc.StepsPerDay,
	}
	if sc.Burned != nil {
		in.Burned = sc.Burned
	}
	return in
}

// Metrics summarises the grid after a step.
type Metrics struct {
	Step    int
	Day     int
	Burning int
	Burned  int
	// Score is nil when no ground-truth mask was loaded.
	Score *score.Result
}

type batchStats struct {
	burning int
	burned  int
	cm      score.Confusion
}

type snapshot struct {
	state   []float64
	deficit []float64
	wind    []float64
}

// Model composes the grid, the active rule and a scheduler.
type Model struct {
	cfg   Config
	grid  *Grid
	rule  Rule
	sched core.Scheduler
	rain  data.RainSource

	weather     []factors.WeatherRow
	startDay    int
	stepsPerDay int
	hasTruth    bool

	view    View
	steps   int
	display []uint8
	stats   []batchStats
	initial snapshot
	halted  error
	last    Metrics

	Log logrus.FieldLogger
}

// NewModel validates the inputs against cfg, builds the grid and the rule, and
// seeds the ignitions. rain may be nil for a dry run.
func NewModel(cfg Config, in Inputs, rain data.RainSource) (*Model, error) {
	rc, err := LookupRule(cfg.Rule)
	if err != nil {
		return nil, err
	}
	if cfg.Slope != "" {
		rc.Slope = cfg.Slope
	}

	g := NewGrid(cfg.Width, cfg.Height)
	if err := load(g, "rate of spread", in.RateOfSpread, g.ros); err != nil {
		return nil, err
	}
	if in.Height != nil {
		if err := load(g, "height", in.Height, g.height); err != nil {
			return nil, err
		}
	}
	if in.Burned != nil {
		mask := make([]float64, g.Len())
		if err := load(g, "burned mask", in.Burned, mask); err != nil {
			return nil, err
		}
		for i, v := range mask {
			g.burned[i] = v != 0
		}
	}

	rule, err := NewRule(rc, g, cfg.Params.Alpha)
	if err != nil {
		return nil, err
	}

	m := &Model{
		cfg:         cfg,
		grid:        g,
		rule:        rule,
		sched:       newScheduler(cfg),
		rain:        rain,
		weather:     in.Weather,
		startDay:    in.StartDay,
		stepsPerDay: in.StepsPerDay,
		hasTruth:    in.Burned != nil,
		display:     make([]uint8, g.Len()),
		Log:         cfg.Log,
	}
	if m.Log == nil {
		m.Log = logrus.StandardLogger()
	}
	if m.stepsPerDay <= 0 {
		m.stepsPerDay = data.DefaultStepsPerDay
	}
	m.stats = make([]batchStats, m.sched.Batches(g.Len()))
	m.view = View{
		Grid:   g,
		Wind:   cfg.Params.Wind(),
		MaxROS: g.MaxRateOfSpread(),
		Seed:   cfg.Seed,
	}

	for _, ig := range in.Ignitions {
		m.DrawCircle(ig.X, ig.Y, ig.Radius)
	}
	m.initial = snapshot{
		state:   append([]float64(nil), g.state...),
		deficit: append([]float64(nil), g.deficit...),
		wind:    append([]float64(nil), g.wind...),
	}
	m.rebuildDisplay()
	return m, nil
}

func newScheduler(cfg Config) core.Scheduler {
	if cfg.Workers == 1 {
		return core.NewSequential()
	}
	return core.NewConcurrent(cfg.Workers, cfg.BatchSize)
}

func load(g *Grid, name string, src mat.Matrix, dst []float64) error {
	if src == nil {
		return fmt.Errorf("wildfire: %s matrix missing: %w", name, ErrDimension)
	}
	r, c := src.Dims()
	if r != g.H || c != g.W {
		return fmt.Errorf("wildfire: %s matrix is %dx%d, grid is %dx%d: %w", name, r, c, g.H, g.W, ErrDimension)
	}
	for row := 0; row < r; row++ {
		for col := 0; col < c; col++ {
			dst[row*g.W+col] = src.At(row, col)
		}
	}
	return nil
}

// Close releases scheduler resources.
func (m *Model) Close() { m.sched.Close() }

// Name returns the simulation identifier.
func (m *Model) Name() string { return "wildfire" }

// Size reports the grid dimensions.
func (m *Model) Size() core.Size { return core.Size{W: m.grid.W, H: m.grid.H} }

// Grid exposes the underlying grid.
func (m *Model) Grid() *Grid { return m.grid }

// Rule returns the active propagation rule.
func (m *Model) Rule() Rule { return m.rule }

// Config returns the configuration the model was built with.
func (m *Model) Config() Config { return m.cfg }

// Steps reports how many steps have completed.
func (m *Model) Steps() int { return m.steps }

// Day returns the simulated day the next step belongs to.
func (m *Model) Day() int { return m.startDay + m.steps/m.stepsPerDay }

// MaxRateOfSpread is the normalisation constant used by the rules.
func (m *Model) MaxRateOfSpread() float64 { return m.view.MaxROS }

// Cell returns the cell at (x, y), origin bottom-left.
func (m *Model) Cell(x, y int) Cell { return m.grid.Cell(x, y) }

// DrawCircle ignites every cell within radius of (cx, cy). Call it between
// steps only.
func (m *Model) DrawCircle(cx, cy, radius float64) {
	lit := m.grid.Ignite(cx, cy, radius)
	m.rebuildDisplay()
	m.Log.WithFields(logrus.Fields{"x": cx, "y": cy, "radius": radius, "cells": lit}).Debug("ignition")
}

// Cells exposes the display buffer, refreshed after every step.
func (m *Model) Cells() []uint8 { return m.display }

// LastMetrics returns the metrics of the most recent step.
func (m *Model) LastMetrics() Metrics { return m.last }

// Err reports the error that halted the model, if any.
func (m *Model) Err() error { return m.halted }

// Step advances the model for the viewer. A failing step halts the model;
// see Err.
func (m *Model) Step() {
	if m.halted != nil {
		return
	}
	if _, err := m.Advance(); err != nil {
		m.halted = err
		m.Log.WithError(err).WithField("step", m.steps).Error("simulation halted")
	}
}

// Advance runs one simultaneous step: load the day's rain on day
// boundaries, compute every next state from the frozen current grid, then
// commit.
func (m *Model) Advance() (Metrics, error) {
	day := m.Day()
	if m.steps%m.stepsPerDay == 0 && m.rain != nil {
		if err := m.loadRain(day); err != nil {
			return Metrics{}, err
		}
	}
	row, err := m.weatherRow(day)
	if err != nil {
		return Metrics{}, err
	}
	m.view.Weather = row
	m.view.Step = m.steps

	if err := m.sched.Step(m.grid.Len(), m.compute, m.commit); err != nil {
		return Metrics{}, fmt.Errorf("wildfire: step %d: %w", m.steps, err)
	}
	m.grid.Swap()
	m.steps++
	m.last = m.metrics(day)
	return m.last, nil
}

func (m *Model) loadRain(day int) error {
	r, err := m.rain.LoadRain(day)
	if err != nil {
		return fmt.Errorf("wildfire: day %d: %w: %w", day, ErrRain, err)
	}
	if err := load(m.grid, fmt.Sprintf("rain day %d", day), r, m.grid.rain); err != nil {
		return err
	}
	m.Log.WithFields(logrus.Fields{"day": day, "step": m.steps}).Debug("rain refreshed")
	return nil
}

func (m *Model) weatherRow(day int) (factors.WeatherRow, error) {
	if len(m.weather) == 0 {
		return factors.WeatherRow{}, nil
	}
	if day < 0 || day >= len(m.weather) {
		return factors.WeatherRow{}, fmt.Errorf("wildfire: day %d of %d: %w", day, len(m.weather), ErrWeather)
	}
	return m.weather[day], nil
}

func (m *Model) compute(_, lo, hi int) {
	g := m.grid
	for i := lo; i < hi; i++ {
		next := m.rule.Apply(&m.view, i)
		g.stateNext[i] = next.State
		g.deficitNext[i] = next.Deficit
		g.wind[i] = next.Wind
	}
}

func (m *Model) commit(batch, lo, hi int) {
	g := m.grid
	st := &m.stats[batch]
	*st = batchStats{}
	for i := lo; i < hi; i++ {
		s := g.stateNext[i]
		m.display[i] = encodeDisplayValue(s, g.ros[i], g.burned[i], m.hasTruth)
		switch {
		case s == 1:
			st.burned++
		case s > 0:
			st.burning++
		}
		if m.hasTruth {
			st.cm.Add(g.burned[i], s == 1)
		}
	}
}

func (m *Model) metrics(day int) Metrics {
	out := Metrics{Step: m.steps, Day: day}
	var cm score.Confusion
	for _, st := range m.stats {
		out.Burning += st.burning
		out.Burned += st.burned
		cm = cm.Merge(st.cm)
	}
	if m.hasTruth {
		res := cm.Result()
		out.Score = &res
	}
	return out
}

// Reset restores the state right after construction. A non-zero seed
// replaces the gust sampling seed.
func (m *Model) Reset(seed int64) {
	g := m.grid
	copy(g.state, m.initial.state)
	copy(g.deficit, m.initial.deficit)
	copy(g.wind, m.initial.wind)
	for i := range g.rain {
		g.rain[i] = 0
	}
	m.steps = 0
	m.halted = nil
	m.last = Metrics{}
	if seed != 0 {
		m.view.Seed = seed
	}
	m.rebuildDisplay()
}

func (m *Model) rebuildDisplay() {
	g := m.grid
	for i := range m.display {
		m.display[i] = encodeDisplayValue(g.state[i], g.ros[i], g.burned[i], m.hasTruth)
	}
}
