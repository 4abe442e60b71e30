package data

import (
	"math"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/mat"

	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
	rng "github.com/vincenzocorso/forest-fire-simulation/pkg/core"
)

// Synthetic generates a reproducible scenario from Perlin noise. It is used
// when no data directory is given and by the viewer.
type Synthetic struct {
	Width  int
	Height int
	Seed   int64

	// Relief is the peak-to-trough elevation in metres.
	Relief float64
	// Firebreak is the noise level below which fuel is zero (rock, water).
	Firebreak float64
	// RainChance is the probability that a given day brings rain.
	RainChance float64
	// Days sizes the weather table.
	Days int
}

// DefaultSynthetic returns a moderately hilly 250×250 scenario.
func DefaultSynthetic() Synthetic {
	return Synthetic{
		Width:      250,
		Height:     250,
		Seed:       1337,
		Relief:     400,
		Firebreak:  -0.35,
		RainChance: 0.2,
		Days:       64,
	}
}

const (
	perlinAlpha  = 2.0
	perlinBeta   = 2.0
	perlinOctave = 3
	noiseScale   = 0.02
)

func (s Synthetic) field(seed int64, scale float64) *mat.Dense {
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctave, seed)
	m := mat.NewDense(s.Height, s.Width, nil)
	for r := 0; r < s.Height; r++ {
		for c := 0; c < s.Width; c++ {
			m.Set(r, c, p.Noise2D(float64(c)*scale, float64(r)*scale))
		}
	}
	return m
}

// Scenario builds terrain, fuel, weather and a central ignition.
func (s Synthetic) Scenario() *Scenario {
	elev := s.field(s.Seed, noiseScale)
	elev.Apply(func(_, _ int, v float64) float64 {
		return (math.Max(-1, math.Min(1, v)) + 1) / 2 * s.Relief
	}, elev)

	fuel := s.field(s.Seed+1, noiseScale*2)
	fuel.Apply(func(_, _ int, v float64) float64 {
		if v < s.Firebreak {
			return 0
		}
		// Map the remaining noise onto 0.2–1.0 m/s.
		return 0.2 + 0.8*math.Min(1, (v-s.Firebreak)/(1-s.Firebreak))
	}, fuel)

	days := s.Days
	if days <= 0 {
		days = 1
	}
	r := rng.NewRNG(s.Seed)
	weather := make([]factors.WeatherRow, days)
	angle := r.Float64() * 360
	for i := range weather {
		sustained := 5 + r.Float64()*20
		angle = math.Mod(angle+(r.Float64()-0.5)*60+360, 360)
		weather[i] = factors.WeatherRow{
			GustKmh:      sustained * (1.3 + r.Float64()*0.7),
			SustainedKmh: sustained,
			AngleDeg:     angle,
		}
	}

	return &Scenario{
		Name:         "synthetic",
		Width:        s.Width,
		Height:       s.Height,
		StepsPerDay:  DefaultStepsPerDay,
		RateOfSpread: fuel,
		Elevation:    elev,
		Weather:      weather,
		Ignitions: []Ignition{{
			X:      float64(s.Width) / 2,
			Y:      float64(s.Height) / 2,
			Radius: math.Max(1, float64(min(s.Width, s.Height))/50),
			Name:   "centre",
		}},
	}
}

// LoadRain returns a dry field on most days and a patchy rain field, in mm,
// with probability RainChance.
func (s Synthetic) LoadRain(day int) (mat.Matrix, error) {
	m := mat.NewDense(s.Height, s.Width, nil)
	if rng.CellFloat64(s.Seed, day, 0) >= s.RainChance {
		return m, nil
	}
	f := s.field(s.Seed+int64(day)*7919, noiseScale*3)
	m.Apply(func(r, c int, _ float64) float64 {
		return math.Max(0, f.At(r, c)) * 20
	}, m)
	return m, nil
}
