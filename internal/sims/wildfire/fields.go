package wildfire

import (
	"fmt"
	"math"

	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
)

// RainField exposes the rain layer in display order.
func (m *Model) RainField() []float64 { return m.grid.rain }

// WindField exposes the last computed wind component of every cell.
func (m *Model) WindField() []float64 { return m.grid.wind }

// ElevationField exposes the terrain heights.
func (m *Model) ElevationField() []float64 { return m.grid.height }

// Weather returns the weather row applied by the last step.
func (m *Model) Weather() factors.WeatherRow { return m.view.Weather }

// WindVector returns the sustained wind as a screen-space vector in m/s, x to
// the right and y down. AngleDeg uses the fire heading convention: 0 points
// north and 90 points east.
func (m *Model) WindVector() (vx, vy float64) {
	w := m.view.Weather
	speed := w.SustainedKmh * factors.KmhToMs
	rad := w.AngleDeg * math.Pi / 180
	return speed * math.Sin(rad), -speed * math.Cos(rad)
}

// Status is a one-line summary of the latest step for on-screen display.
func (m *Model) Status() string {
	if m.halted != nil {
		return "halted: " + m.halted.Error()
	}
	met := m.last
	s := fmt.Sprintf("step %d  day %d  burning %d  burned %d", met.Step, m.Day(), met.Burning, met.Burned)
	if met.Score != nil {
		s += fmt.Sprintf("  f1 %.3f", met.Score.F1)
	}
	return s
}
