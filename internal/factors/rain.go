package factors

// MaxRainDeficit bounds both the suppression and the spread deficit.
const MaxRainDeficit = 0.8

const (
	suppressionSlope  = 0.0242424242424
	suppressionOffset = 0.0484848484848
	deficitSlope      = 0.12
	dryingRate        = 0.5
	dryingFloor       = 0.01
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RainSuppression is the fraction of burning intensity removed by rain.
func RainSuppression(rain float64) float64 {
	return clamp(suppressionSlope*rain-suppressionOffset, 0, MaxRainDeficit)
}

// RainDeficit is the spread deficit left on an unburnt cell by rain.
func RainDeficit(rain float64) float64 {
	return clamp(deficitSlope*rain, 0, MaxRainDeficit)
}

// SpreadReduction converts a deficit into the multiplier applied to a cell's
// effective rate of spread.
func SpreadReduction(deficit float64) float64 { return 1 - deficit }

// ApplyRain folds the day's rain into a candidate next state and returns the
// adjusted state together with the cell's next deficit:
//
//   - rain on a burning candidate damps it;
//   - rain on a non-burning candidate sets a fresh deficit;
//   - no rain halves the deficit, snapping it to zero below 0.01.
func ApplyRain(rain, deficit, candidate float64) (next, nextDeficit float64) {
	if rain > 0 {
		if candidate > 0 {
			return candidate * (1 - RainSuppression(rain)), deficit
		}
		return candidate, RainDeficit(rain)
	}
	d := deficit * dryingRate
	if d < dryingFloor {
		d = 0
	}
	return candidate, d
}
