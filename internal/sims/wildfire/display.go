package wildfire

import "image/color"

// Display values. Burning cells use displayBurning plus an intensity level.
const (
	DisplayUnburned      uint8 = 0
	DisplayBurned        uint8 = 1
	DisplayOverPredicted uint8 = 2
	DisplayMissed        uint8 = 3
	DisplayFuelless      uint8 = 4

	displayBurning      uint8 = 16
	displayBurningSteps       = 16
)

var wildfirePalette = buildWildfirePalette()

// Palette exposes the colour palette used for rendering the display buffer.
func (m *Model) Palette() []color.RGBA {
	return wildfirePalette
}

func buildWildfirePalette() []color.RGBA {
	palette := make([]color.RGBA, int(displayBurning)+displayBurningSteps)
	for i := range palette {
		palette[i] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	palette[DisplayBurned] = color.RGBA{A: 255}
	palette[DisplayOverPredicted] = color.RGBA{R: 128, B: 128, A: 255}
	palette[DisplayMissed] = color.RGBA{G: 128, A: 255}
	palette[DisplayFuelless] = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	for i := 0; i < displayBurningSteps; i++ {
		t := float64(i) / float64(displayBurningSteps-1)
		// Pale yellow through to deep red as intensity rises.
		palette[int(displayBurning)+i] = color.RGBA{
			R: 255,
			G: uint8(220 - 170*t),
			B: uint8(120 - 110*t),
			A: 255,
		}
	}
	return palette
}

func encodeDisplayValue(state, ros float64, burned, hasTruth bool) uint8 {
	switch {
	case state == 1:
		if hasTruth && !burned {
			return DisplayOverPredicted
		}
		return DisplayBurned
	case state > 0:
		level := int(state * displayBurningSteps)
		if level >= displayBurningSteps {
			level = displayBurningSteps - 1
		}
		return displayBurning + uint8(level)
	case hasTruth && burned:
		return DisplayMissed
	case ros == 0:
		return DisplayFuelless
	default:
		return DisplayUnburned
	}
}

// IsBurning reports whether a display value encodes an actively burning cell.
func IsBurning(v uint8) bool { return v >= displayBurning }
