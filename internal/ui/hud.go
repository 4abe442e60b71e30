//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
)

type statusProvider interface {
	Status() string
}

const (
	panelPadding  = 12
	rowPitch      = 36
	listPitch     = 15
	buttonSize    = 24
	buttonGap     = 6
	titleBaseline = panelPadding + 18
	statusOffset  = 18
	groupGap      = 10
	rowsTop       = titleBaseline + statusOffset + 10
)

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	textColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	buttonOn    = [2]color.RGBA{{R: 54, G: 56, B: 64, A: 255}, {R: 230, G: 230, B: 240, A: 255}}
	buttonOff   = [2]color.RGBA{{R: 32, G: 34, B: 40, A: 255}, {R: 120, G: 120, B: 130, A: 255}}
)

// controlRow is one adjustable parameter with its − and + buttons.
type controlRow struct {
	ctrl  core.ParameterControl
	value float64
	known bool
	top   int
}

func (r *controlRow) plus(width int) image.Rectangle {
	y := r.top + (rowPitch-buttonSize)/2
	x := width - panelPadding - buttonSize
	return image.Rect(x, y, x+buttonSize, y+buttonSize)
}

func (r *controlRow) minus(width int) image.Rectangle {
	return r.plus(width).Sub(image.Pt(buttonSize+buttonGap, 0))
}

func (r *controlRow) text() string {
	if !r.known {
		return "--"
	}
	return formatFloat(r.ctrl, r.value)
}

// HUD renders the calibration panel to the right of the map: the tunable wind
// parameters with −/+ buttons, the model status and the read-only parameters.
type HUD struct {
	sim     core.Sim
	width   int
	offsetX int
	title   string

	rows     []controlRow
	setter   core.FloatParameterSetter
	status   string
	snapshot core.ParameterSnapshot

	panel *ebiten.Image
	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided simulation and panel width. A zero
// width disables drawing.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: "Controls"}
	if name := sim.Name(); name != "" {
		h.title = strings.ToUpper(name[:1]) + name[1:]
	}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		for i, ctrl := range p.ParameterControls() {
			h.rows = append(h.rows, controlRow{ctrl: ctrl, top: rowsTop + i*rowPitch})
		}
	}
	h.setter, _ = sim.(core.FloatParameterSetter)
	return h
}

// Update refreshes the status and parameter values and applies button clicks.
// offsetX is the screen x of the panel's left edge.
func (h *HUD) Update(offsetX int) {
	if h == nil {
		return
	}
	h.offsetX = offsetX
	if sp, ok := h.sim.(statusProvider); ok {
		h.status = sp.Status()
	}
	p, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = p.Parameters()
	for i := range h.rows {
		r := &h.rows[i]
		r.known = false
		if param, ok := h.snapshot.Lookup(r.ctrl.Key); ok {
			if v, err := strconv.ParseFloat(param.Value, 64); err == nil {
				r.value, r.known = v, true
			}
		}
	}
	if h.setter != nil && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		h.click(image.Pt(mx-h.offsetX, my))
	}
}

func (h *HUD) click(pt image.Point) {
	for i := range h.rows {
		r := &h.rows[i]
		if !r.known {
			continue
		}
		dir := 0
		switch {
		case pt.In(r.minus(h.width)):
			dir = -1
		case pt.In(r.plus(h.width)):
			dir = 1
		default:
			continue
		}
		if v, ok := stepValue(r.ctrl, r.value, dir); ok && h.setter.SetFloatParameter(r.ctrl.Key, v) {
			r.value = v
		}
		return
	}
}

// stepValue moves value one step in dir, clamped to the control's bounds. ok
// is false when the clamp leaves nothing to change.
func stepValue(ctrl core.ParameterControl, value float64, dir int) (float64, bool) {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	v := value + float64(dir)*step
	if ctrl.HasMin {
		v = math.Max(v, ctrl.Min)
	}
	if ctrl.HasMax {
		v = math.Min(v, ctrl.Max)
	}
	return v, math.Abs(v-value) >= 1e-9
}

// Draw paints the panel at offsetX. scale is the map's pixel scale and sizes
// the panel height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, titleBaseline, headerColor)
	if h.status != "" {
		text.Draw(h.panel, h.status, face, panelPadding, titleBaseline+statusOffset, mutedColor)
	}
	for i := range h.rows {
		h.drawRow(&h.rows[i])
	}

	y := rowsTop + len(h.rows)*rowPitch + groupGap
	for _, g := range h.snapshot.Groups {
		text.Draw(h.panel, g.Name, face, panelPadding, y, headerColor)
		y += listPitch
		for _, p := range g.Params {
			text.Draw(h.panel, p.Label+": "+p.Value, face, panelPadding+8, y, mutedColor)
			y += listPitch
		}
		y += groupGap
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawRow(r *controlRow) {
	face := basicfont.Face7x13
	baseline := r.top + 24
	text.Draw(h.panel, r.ctrl.Label, face, panelPadding, baseline, textColor)

	minus, plus := r.minus(h.width), r.plus(h.width)
	val := r.text()
	col := textColor
	if !r.known {
		col = mutedColor
	}
	text.Draw(h.panel, val, face, minus.Min.X-buttonGap-text.BoundString(face, val).Dx(), baseline, col)

	live := r.known && h.setter != nil
	_, down := stepValue(r.ctrl, r.value, -1)
	_, up := stepValue(r.ctrl, r.value, 1)
	h.drawButton(minus, "-", live && down)
	h.drawButton(plus, "+", live && up)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	cols := buttonOff
	if enabled {
		cols = buttonOn
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(cols[0])
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()+b.Dy())/2
	text.Draw(h.panel, label, face, x, y, cols[1])
}

// formatFloat prints v with as many decimals as ctrl's step carries.
func formatFloat(ctrl core.ParameterControl, v float64) string {
	prec := 2
	if ctrl.Step > 0 {
		step := strconv.FormatFloat(ctrl.Step, 'f', -1, 64)
		prec = 0
		if i := strings.IndexByte(step, '.'); i >= 0 {
			prec = len(step) - i - 1
		}
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
