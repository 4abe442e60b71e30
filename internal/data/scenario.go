// Package data loads wildfire scenarios: dense terrain matrices, the weather
// table, per-day rain and ignition points. Matrices are row-major with row 0
// at the visual top of the map.
package data

import (
	"gonum.org/v1/gonum/mat"

	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
)

// DefaultStepsPerDay is the number of simulation steps per simulated day.
const DefaultStepsPerDay = 5

// Ignition seeds a burning disc at (X, Y) in bottom-left coordinates.
type Ignition struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Radius float64 `toml:"radius"`
	Name   string  `toml:"name"`
}

// Scenario is everything the model needs before the first step.
type Scenario struct {
	Name        string
	Width       int
	Height      int
	StartDay    int
	StepsPerDay int

	RateOfSpread *mat.Dense
	Elevation    *mat.Dense
	// Burned is the ground-truth footprint; nil when the scenario has none.
	Burned *mat.Dense

	Weather   []factors.WeatherRow
	Ignitions []Ignition
}

// RainSource supplies the rain matrix of a simulated day.
type RainSource interface {
	LoadRain(day int) (mat.Matrix, error)
}
