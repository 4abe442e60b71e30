package wildfire

import (
	"iter"

	"gonum.org/v1/gonum/floats"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
)

// Cell is a value view of one grid element. Grids hand out copies; writes go
// through SetCell.
type Cell struct {
	State         float64
	RateOfSpread  float64
	Height        float64
	HeightFactors core.Matrix3
	WindComponent float64
	Rain          float64
	RainDeficit   float64
	Burned        bool
}

// Grid stores every cell attribute as a dense layer indexed by core.Lattice.
// The dynamic layers are double buffered: rules read state and deficit and
// write stateNext and deficitNext, and Swap publishes the step.
type Grid struct {
	core.Lattice

	ros     []float64
	height  []float64
	burned  []bool
	rain    []float64
	factors []core.Matrix3
	wind    []float64

	state       []float64
	stateNext   []float64
	deficit     []float64
	deficitNext []float64
}

// NewGrid allocates a grid with unit rate of spread, flat terrain and unit
// height factors.
func NewGrid(w, h int) *Grid {
	l := core.NewLattice(w, h)
	n := l.Len()
	g := &Grid{
		Lattice:     l,
		ros:         make([]float64, n),
		height:      make([]float64, n),
		burned:      make([]bool, n),
		rain:        make([]float64, n),
		factors:     make([]core.Matrix3, n),
		wind:        make([]float64, n),
		state:       make([]float64, n),
		stateNext:   make([]float64, n),
		deficit:     make([]float64, n),
		deficitNext: make([]float64, n),
	}
	for i := range g.ros {
		g.ros[i] = 1
		g.wind[i] = 1
		g.factors[i] = core.UnitMatrix3()
	}
	return g
}

// CellAt returns the cell stored at linear index idx.
func (g *Grid) CellAt(idx int) Cell {
	return Cell{
		State:         g.state[idx],
		RateOfSpread:  g.ros[idx],
		Height:        g.height[idx],
		HeightFactors: g.factors[idx],
		WindComponent: g.wind[idx],
		Rain:          g.rain[idx],
		RainDeficit:   g.deficit[idx],
		Burned:        g.burned[idx],
	}
}

// Cell returns the cell at public coordinates (x, y).
func (g *Grid) Cell(x, y int) Cell { return g.CellAt(g.Index(x, y)) }

// SetCell overwrites every attribute of the cell at (x, y).
func (g *Grid) SetCell(x, y int, c Cell) {
	idx := g.Index(x, y)
	g.state[idx] = c.State
	g.ros[idx] = c.RateOfSpread
	g.height[idx] = c.Height
	g.factors[idx] = c.HeightFactors
	g.wind[idx] = c.WindComponent
	g.rain[idx] = c.Rain
	g.deficit[idx] = c.RainDeficit
	g.burned[idx] = c.Burned
}

// All yields every cell with its coordinate in storage order.
func (g *Grid) All() iter.Seq2[core.Coord, Cell] {
	return func(yield func(core.Coord, Cell) bool) {
		for idx, c := range g.Lattice.All() {
			if !yield(c, g.CellAt(idx)) {
				return
			}
		}
	}
}

// State exposes the current burn state layer.
func (g *Grid) State() []float64 { return g.state }

// MaxRateOfSpread returns the largest rate of spread on the grid.
func (g *Grid) MaxRateOfSpread() float64 { return floats.Max(g.ros) }

// PrecomputeHeightFactors fills every cell's height factor cache from the
// static terrain. Directions that leave the grid keep a factor of 1.
func (g *Grid) PrecomputeHeightFactors(slope factors.SlopeFunc, param float64) {
	for idx := range g.factors {
		m := core.UnitMatrix3()
		for _, o := range core.Moore {
			n, ok := g.Neighbor(idx, o)
			if !ok {
				continue
			}
			m.Set(o, slope(g.height[idx]-g.height[n], o, param))
		}
		g.factors[idx] = m
	}
}

// Swap publishes the next buffers as current.
func (g *Grid) Swap() {
	g.state, g.stateNext = g.stateNext, g.state
	g.deficit, g.deficitNext = g.deficitNext, g.deficit
}

// Ignite sets every cell within radius of (cx, cy) to fully burning.
func (g *Grid) Ignite(cx, cy, radius float64) int {
	r2 := radius * radius
	lit := 0
	for idx, c := range g.Lattice.All() {
		dx := float64(c.X) - cx
		dy := float64(c.Y) - cy
		if dx*dx+dy*dy <= r2 {
			g.state[idx] = 1
			lit++
		}
	}
	return lit
}
