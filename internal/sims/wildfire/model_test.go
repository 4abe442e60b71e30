package wildfire

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
	"github.com/vincenzocorso/forest-fire-simulation/internal/data"
	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
	"github.com/vincenzocorso/forest-fire-simulation/internal/score"
)

func uniform(w, h int, v float64) *mat.Dense {
	m := mat.NewDense(h, w, nil)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			m.Set(r, c, v)
		}
	}
	return m
}

func testConfig(w, h int, rule string) Config {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Rule = rule
	return cfg
}

func flatInputs(w, h int) Inputs {
	return Inputs{
		RateOfSpread: uniform(w, h, 1),
		Height:       uniform(w, h, 0),
	}
}

type rainRecorder struct {
	w, h int
	mm   float64
	err  error
	days []int
}

func (r *rainRecorder) LoadRain(day int) (mat.Matrix, error) {
	r.days = append(r.days, day)
	if r.err != nil {
		return nil, r.err
	}
	return uniform(r.w, r.h, r.mm), nil
}

func TestBaseSingleStepFromCentre(t *testing.T) {
	in := flatInputs(5, 5)
	in.Ignitions = []data.Ignition{{X: 2, Y: 2}}
	m, err := NewModel(testConfig(5, 5, "base"), in, nil)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Advance()
	require.NoError(t, err)

	adjacent := map[core.Coord]bool{{X: 2, Y: 3}: true, {X: 3, Y: 2}: true, {X: 2, Y: 1}: true, {X: 1, Y: 2}: true}
	diagonal := map[core.Coord]bool{{X: 1, Y: 1}: true, {X: 3, Y: 1}: true, {X: 1, Y: 3}: true, {X: 3, Y: 3}: true}
	centre := core.Coord{X: 2, Y: 2}
	for c, cell := range m.Grid().All() {
		switch {
		case c == centre:
			assert.Equal(t, 1.0, cell.State, "centre")
		case adjacent[c]:
			assert.Equal(t, 1.0, cell.State, "adjacent %v", c)
		case diagonal[c]:
			assert.InDelta(t, 0.83, cell.State, 1e-12, "diagonal %v", c)
		default:
			assert.Equal(t, 0.0, cell.State, "far cell %v", c)
		}
	}
}

func TestStepIsSimultaneous(t *testing.T) {
	for _, workers := range []int{1, 4} {
		cfg := testConfig(3, 3, "base")
		cfg.Workers = workers
		cfg.BatchSize = 1
		in := flatInputs(3, 3)
		in.Ignitions = []data.Ignition{{X: 1, Y: 1}}
		m, err := NewModel(cfg, in, nil)
		require.NoError(t, err)

		_, err = m.Advance()
		require.NoError(t, err)
		m.Close()

		// Corners only see the centre; edges ignited in the same step must not
		// contribute.
		for _, c := range []core.Coord{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}} {
			assert.InDelta(t, 0.83, m.Cell(c.X, c.Y).State, 1e-12, "workers=%d corner %v", workers, c)
		}
		assert.Equal(t, 1.0, m.Cell(1, 0).State)
	}
}

func syntheticModel(t *testing.T, workers, batch int) *Model {
	t.Helper()
	syn := data.DefaultSynthetic()
	syn.Width, syn.Height = 48, 40
	syn.RainChance = 0.5
	cfg := testConfig(syn.Width, syn.Height, "combined")
	cfg.Workers = workers
	cfg.BatchSize = batch
	cfg.Params.GustProbability = 0.5
	m, err := NewModel(cfg, InputsFromScenario(syn.Scenario()), syn)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestConcurrentMatchesSequential(t *testing.T) {
	seq := syntheticModel(t, 1, 0)
	par := syntheticModel(t, 4, 97)

	for step := 0; step < 15; step++ {
		a, err := seq.Advance()
		require.NoError(t, err)
		b, err := par.Advance()
		require.NoError(t, err)
		assert.Equal(t, a, b, "metrics at step %d", step)
		require.Equal(t, seq.Grid().State(), par.Grid().State(), "state at step %d", step)
	}
	assert.Equal(t, seq.Cells(), par.Cells())
}

func TestStatesNeverDecrease(t *testing.T) {
	for _, rule := range RuleNames() {
		t.Run(rule, func(t *testing.T) {
			syn := data.DefaultSynthetic()
			syn.Width, syn.Height = 30, 30
			syn.RainChance = 1
			cfg := testConfig(30, 30, rule)
			m, err := NewModel(cfg, InputsFromScenario(syn.Scenario()), syn)
			require.NoError(t, err)
			defer m.Close()

			prev := append([]float64(nil), m.Grid().State()...)
			for step := 0; step < 25; step++ {
				_, err := m.Advance()
				require.NoError(t, err)
				for i, s := range m.Grid().State() {
					require.GreaterOrEqual(t, s, prev[i], "cell %d step %d", i, step)
					require.LessOrEqual(t, s, 1.0)
				}
				copy(prev, m.Grid().State())
			}
		})
	}
}

func TestRainLoadedOnDayBoundaries(t *testing.T) {
	in := flatInputs(4, 4)
	in.StartDay = 3
	in.StepsPerDay = 2
	rain := &rainRecorder{w: 4, h: 4, mm: 5}
	m, err := NewModel(testConfig(4, 4, "combined"), in, rain)
	require.NoError(t, err)
	defer m.Close()

	days := []int{}
	for i := 0; i < 5; i++ {
		met, err := m.Advance()
		require.NoError(t, err)
		days = append(days, met.Day)
	}
	assert.Equal(t, []int{3, 3, 4, 4, 5}, days)
	assert.Equal(t, []int{3, 4, 5}, rain.days)
	assert.Equal(t, 5.0, m.Cell(0, 0).Rain)
}

func TestRainErrors(t *testing.T) {
	in := flatInputs(4, 4)
	boom := errors.New("disk on fire")
	m, err := NewModel(testConfig(4, 4, "combined"), in, &rainRecorder{err: boom})
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Advance()
	assert.ErrorIs(t, err, ErrRain)
	assert.ErrorIs(t, err, boom)

	m2, err := NewModel(testConfig(4, 4, "combined"), flatInputs(4, 4), &rainRecorder{w: 3, h: 4})
	require.NoError(t, err)
	defer m2.Close()
	_, err = m2.Advance()
	assert.ErrorIs(t, err, ErrDimension)
}

func TestWeatherExhaustionHaltsModel(t *testing.T) {
	in := flatInputs(4, 4)
	in.StepsPerDay = 1
	in.Weather = []factors.WeatherRow{{GustKmh: 20, SustainedKmh: 10, AngleDeg: 90}}
	m, err := NewModel(testConfig(4, 4, "combined"), in, nil)
	require.NoError(t, err)
	defer m.Close()

	m.Step()
	require.NoError(t, m.Err())
	m.Step()
	assert.ErrorIs(t, m.Err(), ErrWeather)
	assert.Equal(t, 1, m.Steps())

	m.Step()
	assert.Equal(t, 1, m.Steps(), "halted model does not advance")

	m.Reset(0)
	assert.NoError(t, m.Err())
}

func TestNewModelValidation(t *testing.T) {
	_, err := NewModel(testConfig(5, 5, "nope"), flatInputs(5, 5), nil)
	assert.ErrorIs(t, err, ErrUnknownRule)

	_, err = NewModel(testConfig(5, 4, "base"), flatInputs(5, 5), nil)
	assert.ErrorIs(t, err, ErrDimension)

	in := flatInputs(5, 5)
	in.Height = uniform(4, 5, 0)
	_, err = NewModel(testConfig(5, 5, "base"), in, nil)
	assert.ErrorIs(t, err, ErrDimension)

	_, err = NewModel(testConfig(5, 5, "base"), Inputs{}, nil)
	assert.ErrorIs(t, err, ErrDimension)

	in = Inputs{RateOfSpread: uniform(5, 5, 0)}
	_, err = NewModel(testConfig(5, 5, "combined"), in, nil)
	assert.ErrorIs(t, err, ErrNoFuel)

	cfg := testConfig(5, 5, "combined")
	cfg.Slope = "bumpy"
	_, err = NewModel(cfg, flatInputs(5, 5), nil)
	assert.Error(t, err)
}

func TestScoreMatchesFootprint(t *testing.T) {
	truth := mat.NewDense(5, 5, nil)
	// Rows are top-down: (x, y) lives at row 4-y.
	for _, c := range []core.Coord{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 3, Y: 2}, {X: 0, Y: 0}} {
		truth.Set(4-c.Y, c.X, 1)
	}
	in := flatInputs(5, 5)
	in.Burned = truth
	in.Ignitions = []data.Ignition{{X: 2, Y: 2}}
	m, err := NewModel(testConfig(5, 5, "base"), in, nil)
	require.NoError(t, err)
	defer m.Close()

	met, err := m.Advance()
	require.NoError(t, err)
	require.NotNil(t, met.Score)
	assert.Equal(t, 5, met.Burned)
	assert.Equal(t, 4, met.Burning)
	assert.Equal(t, score.Confusion{TP: 5, FN: 1, TN: 19}, met.Score.Confusion)
	assert.Equal(t, 1.0, met.Score.Precision)
	assert.InDelta(t, 5.0/6, met.Score.Recall, 1e-12)

	mask := make([]bool, 25)
	for c, cell := range m.Grid().All() {
		mask[m.Grid().Index(c.X, c.Y)] = cell.Burned
	}
	want, err := score.Footprint(m.Grid().State(), mask)
	require.NoError(t, err)
	assert.Equal(t, want, *met.Score)

	assert.Equal(t, DisplayMissed, m.Cells()[m.Grid().Index(0, 0)])
	assert.Equal(t, DisplayBurned, m.Cells()[m.Grid().Index(2, 2)])
	assert.True(t, IsBurning(m.Cells()[m.Grid().Index(1, 1)]))
}

func TestNoTruthMeansNoScore(t *testing.T) {
	m, err := NewModel(testConfig(3, 3, "base"), flatInputs(3, 3), nil)
	require.NoError(t, err)
	defer m.Close()
	met, err := m.Advance()
	require.NoError(t, err)
	assert.Nil(t, met.Score)
}

func TestDrawCircleAndReset(t *testing.T) {
	m, err := NewModel(testConfig(11, 11, "combined"), flatInputs(11, 11), nil)
	require.NoError(t, err)
	defer m.Close()

	m.DrawCircle(5, 5, 2)
	lit := 0
	for _, s := range m.Grid().State() {
		if s == 1 {
			lit++
		}
	}
	assert.Equal(t, 13, lit)
	assert.Equal(t, 1.0, m.Cell(5, 7).State)
	assert.Equal(t, 0.0, m.Cell(6, 7).State)

	m.Reset(0)
	assert.Equal(t, 0.0, m.Cell(5, 5).State, "reset restores the construction state")
	for i := 0; i < 3; i++ {
		m.Step()
	}
	assert.Equal(t, 3, m.Steps())
	m.Reset(0)
	assert.Equal(t, 0, m.Steps())
	for _, s := range m.Grid().State() {
		assert.Equal(t, 0.0, s)
	}
}

func TestResetReplaysIgnitions(t *testing.T) {
	in := flatInputs(9, 9)
	in.Ignitions = []data.Ignition{{X: 4, Y: 4, Radius: 1}}
	m, err := NewModel(testConfig(9, 9, "combined"), in, nil)
	require.NoError(t, err)
	defer m.Close()

	before := append([]float64(nil), m.Grid().State()...)
	for i := 0; i < 4; i++ {
		m.Step()
	}
	m.Reset(0)
	assert.Equal(t, before, m.Grid().State())
}

func TestMaxRateOfSpread(t *testing.T) {
	in := flatInputs(4, 3)
	ros := in.RateOfSpread.(*mat.Dense)
	ros.Set(1, 2, 3.5)
	m, err := NewModel(testConfig(4, 3, "extended-continuous"), in, nil)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 3.5, m.MaxRateOfSpread())
	assert.Equal(t, 3.5, m.Cell(2, 1).RateOfSpread, "row 1 from the top is y=1 on a 3-high grid")
}

func TestOpenLogsIgnitionsWithCallerFields(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	cfg := testConfig(20, 16, "combined")

	m, err := Open("", cfg, log.WithField("run", "r-42"))
	require.NoError(t, err)
	defer m.Close()

	var ignitions []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "ignition" {
			ignitions = append(ignitions, e)
		}
	}
	require.Len(t, ignitions, 1, "the synthetic scenario seeds one ignition")
	assert.Equal(t, "r-42", ignitions[0].Data["run"])
	assert.Greater(t, ignitions[0].Data["cells"], 0)
}

func TestRegisteredFactory(t *testing.T) {
	sim, err := core.New("wildfire", map[string]string{"w": "32", "h": "24", "workers": "2"})
	require.NoError(t, err)
	m, ok := sim.(*Model)
	require.True(t, ok)
	defer m.Close()

	assert.Equal(t, core.Size{W: 32, H: 24}, sim.Size())
	assert.Len(t, sim.Cells(), 32*24)
	sim.Step()
	assert.NoError(t, m.Err())
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":       "64",
		"h":       "-3",
		"seed":    "99",
		"rule":    "base",
		"workers": "0",
		"alpha":   "30",
		"c1":      "0.5",
		"gust":    "2",
	})
	def := DefaultConfig()
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, def.Height, cfg.Height)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, "base", cfg.Rule)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, 30.0, cfg.Params.Alpha)
	assert.Equal(t, 0.5, cfg.Params.C1)
	assert.Equal(t, def.Params.GustProbability, cfg.Params.GustProbability)
	assert.Equal(t, def, FromMap(nil))
}

func TestParametersAndUpdates(t *testing.T) {
	m, err := NewModel(testConfig(4, 4, "combined"), flatInputs(4, 4), nil)
	require.NoError(t, err)
	defer m.Close()

	snap := m.Parameters()
	p, ok := snap.Lookup("slope")
	require.True(t, ok)
	assert.Equal(t, "exp", p.Value)
	p, ok = snap.Lookup("rule")
	require.True(t, ok)
	assert.Equal(t, "combined", p.Value)

	assert.True(t, m.SetFloatParameter("c2", 1.5))
	assert.Equal(t, 1.5, m.Config().Params.C2)
	assert.False(t, m.SetFloatParameter("alpha", 10))
	assert.False(t, m.SetFloatParameter("c1", -1))
	p, _ = m.Parameters().Lookup("c2")
	assert.Equal(t, "1.5", p.Value)
}

func TestEncodeDisplayValue(t *testing.T) {
	assert.Equal(t, DisplayBurned, encodeDisplayValue(1, 1, false, false))
	assert.Equal(t, DisplayOverPredicted, encodeDisplayValue(1, 1, false, true))
	assert.Equal(t, DisplayMissed, encodeDisplayValue(0, 1, true, true))
	assert.Equal(t, DisplayFuelless, encodeDisplayValue(0, 0, false, false))
	assert.Equal(t, DisplayUnburned, encodeDisplayValue(0, 1, false, false))
	assert.Equal(t, displayBurning, encodeDisplayValue(0.01, 1, false, false))
	assert.Equal(t, displayBurning+displayBurningSteps-1, encodeDisplayValue(0.999, 1, false, false))
	assert.Len(t, wildfirePalette, int(displayBurning)+displayBurningSteps)
}
