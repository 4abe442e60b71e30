//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
	"github.com/vincenzocorso/forest-fire-simulation/internal/render"
)

type rainFieldProvider interface {
	RainField() []float64
}

type windFieldProvider interface {
	WindField() []float64
	WindVector() (vx, vy float64)
}

type elevationFieldProvider interface {
	ElevationField() []float64
}

// maxRainMM saturates the rain tint.
const maxRainMM = 20

// Overlay draws optional layers on top of the fire map: 1 toggles rain, 2 the
// per-cell wind component, 3 elevation and 4 the day's wind arrow.
type Overlay struct {
	sim   core.Sim
	scale int

	showRain  bool
	showWind  bool
	showElev  bool
	showArrow bool

	painter *render.GridPainter
	pixel   *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	o := &Overlay{sim: sim, scale: scale, showArrow: true}
	o.painter = render.NewGridPainter(size.W, size.H)
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers from the number keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showRain = !o.showRain
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showWind = !o.showWind
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showElev = !o.showElev
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit4) {
		o.showArrow = !o.showArrow
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	if p, ok := o.sim.(elevationFieldProvider); ok && o.showElev {
		field := p.ElevationField()
		lo, hi := render.FieldRange(field)
		o.painter.BlitField(screen, field, lo, hi, color.RGBA{R: 240, G: 235, B: 215, A: 170}, scale)
	}
	if p, ok := o.sim.(rainFieldProvider); ok && o.showRain {
		o.painter.BlitField(screen, p.RainField(), 0, maxRainMM, color.RGBA{R: 64, G: 164, B: 223, A: 160}, scale)
	}
	if p, ok := o.sim.(windFieldProvider); ok {
		if o.showWind {
			field := p.WindField()
			_, hi := render.FieldRange(field)
			o.painter.BlitField(screen, field, 0, hi, color.RGBA{R: 150, G: 240, B: 250, A: 150}, scale)
		}
		if o.showArrow {
			vx, vy := p.WindVector()
			o.drawArrow(screen, vx, vy)
		}
	}
}

// drawArrow draws the wind heading in the top-left corner, longer for
// stronger wind.
func (o *Overlay) drawArrow(screen *ebiten.Image, vx, vy float64) {
	const (
		cx, cy    = 36.0, 36.0
		maxLength = 28.0
		maxSpeed  = 15.0
		headAngle = math.Pi / 6
	)
	speed := math.Hypot(vx, vy)
	col := color.RGBA{R: 230, G: 240, B: 255, A: 220}
	if speed < 0.05 {
		o.drawPoint(screen, cx, cy, 4, col)
		return
	}
	nx, ny := vx/speed, vy/speed
	length := maxLength * (0.35 + 0.65*clamp01(speed/maxSpeed))
	tipX, tipY := cx+nx*length/2, cy+ny*length/2
	tailX, tailY := cx-nx*length/2, cy-ny*length/2
	o.drawLine(screen, tailX, tailY, tipX, tipY, 2, col)

	head := length * 0.35
	angle := math.Atan2(ny, nx)
	o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*head, tipY-math.Sin(angle+headAngle)*head, 2, col)
	o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*head, tipY-math.Sin(angle-headAngle)*head, 2, col)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
