// Package factors holds the dimensionless multipliers used by the propagation
// rules: terrain slope, wind and rain. Every function here is pure except for
// the explicit deficit value threaded through ApplyRain.
package factors

import (
	"fmt"
	"math"
	"sort"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
)

// Path lengths in metres between cell centres, including elevation travel.
const (
	PathHorizontal = 656.0
	PathVertical   = 812.0
	PathDiagonal   = 1044.0
)

// SlopeFunc maps the height difference (own height minus neighbour height)
// towards a neighbour in direction o to a spread multiplier. param is the
// steepness parameter; functions that do not use it ignore it.
type SlopeFunc func(diff float64, o core.Offset, param float64) float64

// PathLength returns the travel distance used for direction o.
func PathLength(o core.Offset) float64 {
	switch {
	case o.IsHorizontal():
		return PathHorizontal
	case o.IsVertical():
		return PathVertical
	default:
		return PathDiagonal
	}
}

// SlopeExp is exp(param * atan(-diff / L)) with L the direction's path length.
// It grows without bound as the angle approaches π/2 and tends to 0 as it
// approaches -π/2.
func SlopeExp(diff float64, o core.Offset, param float64) float64 {
	angle := math.Atan(-diff / PathLength(o))
	return math.Exp(param * angle)
}

// SlopeFlat ignores terrain.
func SlopeFlat(float64, core.Offset, float64) float64 { return 1 }

// SlopeLinear is the bounded piecewise profile: quadratic boost below zero,
// linear decay above, and zero outside ±50 m.
func SlopeLinear(diff float64, _ core.Offset, _ float64) float64 {
	if diff <= -50 || diff >= 50 {
		return 0
	}
	if diff < 0 {
		q := diff/20.71 + 1
		return 2 - q*q
	}
	return -(diff / 50) + 1
}

// SlopePiecewise works on the negated difference with a gentle downhill slope,
// a steeper uphill ramp and a drop-off past 50 m; zero outside ±100 m.
func SlopePiecewise(diff float64, _ core.Offset, _ float64) float64 {
	v := -diff
	switch {
	case v <= -100 || v >= 100:
		return 0
	case v <= 0:
		return v/100 + 1
	case v <= 50:
		return v/50 + 1
	default:
		return (-2.0/50)*(v-2) + 2
	}
}

// SlopeArctan converts the difference to an angle over a 496 m cell and maps
// it linearly, peaking at π/4.
func SlopeArctan(diff float64, _ core.Offset, _ float64) float64 {
	slope := math.Atan(diff / 496)
	if diff <= 0 {
		return -1/(math.Pi/4)*slope + 1
	}
	if slope <= math.Pi/4 {
		return 1/(math.Pi/4)*slope + 1
	}
	return -2/(1.39626-math.Pi/4)*(slope-math.Pi/4) + 2
}

var slopes = map[string]SlopeFunc{
	"exp":       SlopeExp,
	"flat":      SlopeFlat,
	"linear":    SlopeLinear,
	"piecewise": SlopePiecewise,
	"arctan":    SlopeArctan,
}

// Slope looks up a slope function by name.
func Slope(name string) (SlopeFunc, error) {
	f, ok := slopes[name]
	if !ok {
		return nil, fmt.Errorf("factors: unknown slope function %q (available: %v)", name, SlopeNames())
	}
	return f, nil
}

// SlopeNames lists the registered slope functions.
func SlopeNames() []string {
	names := make([]string, 0, len(slopes))
	for n := range slopes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
