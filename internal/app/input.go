package app

import "github.com/vincenzocorso/forest-fire-simulation/internal/core"

type igniter interface {
	DrawCircle(cx, cy, radius float64)
}

// screenToCell maps a cursor position to bottom-left cell coordinates. ok is
// false outside the map.
func screenToCell(mx, my, scale int, size core.Size) (core.Coord, bool) {
	if scale <= 0 {
		scale = 1
	}
	if mx < 0 || my < 0 {
		return core.Coord{}, false
	}
	x, row := mx/scale, my/scale
	if x >= size.W || row >= size.H {
		return core.Coord{}, false
	}
	return core.Coord{X: x, Y: size.H - 1 - row}, true
}

// nextRate doubles or halves rate within [1, 240].
func nextRate(rate int, faster bool) int {
	if faster {
		rate *= 2
	} else {
		rate /= 2
	}
	return min(max(rate, 1), 240)
}
