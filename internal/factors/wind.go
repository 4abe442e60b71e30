package factors

import (
	"math"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
)

// KmhToMs converts km/h to m/s.
const KmhToMs = 1 / 3.6

// WeatherRow is one day of the weather table.
type WeatherRow struct {
	GustKmh      float64
	SustainedKmh float64
	AngleDeg     float64
}

// FireAngles holds the angle label of each core.Moore direction: the heading
// a front coming from that neighbour travels along.
var FireAngles = [8]float64{
	180, 270, 0, 90, // N, E, S, W
	135, 225, 315, 45, // NW, NE, SE, SW
}

// FireDirection returns the dominant heading, in degrees within [0, 360), of
// the burning neighbourhood. states follows core.Moore order; missing
// neighbours must carry a zero state. ok is false when nothing is burning.
//
// The heading is the state-weighted circular mean of FireAngles. When opposite
// fronts cancel out exactly, the weighted arithmetic mean is used instead.
func FireDirection(states [8]float64) (deg float64, ok bool) {
	var sx, sy, sa, sw float64
	for i, s := range states {
		if s == 0 {
			continue
		}
		rad := FireAngles[i] * math.Pi / 180
		sx += s * math.Cos(rad)
		sy += s * math.Sin(rad)
		sa += s * FireAngles[i]
		sw += s
	}
	if sw == 0 {
		return 0, false
	}
	if math.Hypot(sx, sy) < 1e-12*sw {
		return sa / sw, true
	}
	deg = math.Atan2(sy, sx) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg, true
}

// AngleDiff returns the smallest absolute angle between a and b in degrees.
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Wind computes the per-cell wind multiplier.
type Wind struct {
	GustProbability float64
	C1              float64
	C2              float64
}

// DefaultWind returns the calibration used by the combined rule.
func DefaultWind() Wind {
	return Wind{GustProbability: 0.1, C1: 0.25, C2: 0.75}
}

// Speed picks the gust or sustained speed for uniform draw u and converts it
// to m/s.
func (w Wind) Speed(row WeatherRow, u float64) float64 {
	if u < w.GustProbability {
		return row.GustKmh * KmhToMs
	}
	return row.SustainedKmh * KmhToMs
}

// Factor returns exp(C1·s)·exp(s·C2·(cos Δ − 1)) where s is the sampled speed
// and Δ the angle between wind and fire heading. An undefined fire heading
// yields 0: without a burning front there is nothing to push.
func (w Wind) Factor(row WeatherRow, fireDeg float64, ok bool, u float64) float64 {
	if !ok {
		return 0
	}
	speed := w.Speed(row, u)
	diff := AngleDiff(row.AngleDeg, fireDeg)
	ft := math.Exp(speed * w.C2 * (math.Cos(diff*math.Pi/180) - 1))
	return math.Exp(w.C1*speed) * ft
}

// NeighborStates gathers core.Moore neighbour states around idx, zero for
// offsets that leave the lattice.
func NeighborStates(l core.Lattice, state []float64, idx int) [8]float64 {
	var out [8]float64
	for i, o := range core.Moore {
		if n, ok := l.Neighbor(idx, o); ok {
			out[i] = state[n]
		}
	}
	return out
}
