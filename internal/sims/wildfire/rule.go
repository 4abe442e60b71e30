package wildfire

import (
	"fmt"
	"math"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
	rng "github.com/vincenzocorso/forest-fire-simulation/pkg/core"
)

// diagonalDiscount scales the diagonal sum of the base rule.
const diagonalDiscount = 0.83

// View is the read-only context a rule sees during the compute phase.
type View struct {
	Grid    *Grid
	Weather factors.WeatherRow
	Wind    factors.Wind
	MaxROS  float64
	Step    int
	Seed    int64
}

// Next is a rule's output for one cell. The scheduler writes it to the
// cell's own slots in the next buffers.
type Next struct {
	State   float64
	Deficit float64
	Wind    float64
}

// Rule computes a cell's next state from the current state of the grid.
// Apply must only read through v.
type Rule interface {
	Name() string
	Apply(v *View, idx int) Next
}

// CapPolicy selects how a raw rule value is mapped into [0, 1].
type CapPolicy int

const (
	// CapClamp keeps continuous intensities, clamping at 1.
	CapClamp CapPolicy = iota
	// CapThreshold ignites fully at 1 and rounds everything else down to 0.
	CapThreshold
)

func (p CapPolicy) String() string {
	switch p {
	case CapClamp:
		return "clamp"
	case CapThreshold:
		return "threshold"
	default:
		return fmt.Sprintf("CapPolicy(%d)", int(p))
	}
}

// Capping maps raw values into [0, 1]. Under CapClamp, positive residues below
// Epsilon snap to 0.
type Capping struct {
	Policy  CapPolicy
	Epsilon float64
}

// Apply caps v.
func (c Capping) Apply(v float64) float64 {
	if c.Policy == CapThreshold {
		if v >= 1 {
			return 1
		}
		return 0
	}
	if v > 0 && v < c.Epsilon {
		return 0
	}
	return math.Min(1, v)
}

// settle caps v and floors it at the current state so fire never un-burns.
func (c Capping) settle(v, current float64) float64 {
	return math.Max(c.Apply(v), current)
}

// terminal reports whether a cell is absorbing: fully burnt or incombustible.
func terminal(g *Grid, idx int) bool {
	return g.state[idx] == 1 || g.ros[idx] == 0
}

func unchanged(g *Grid, idx int) Next {
	return Next{State: g.state[idx], Deficit: g.deficit[idx], Wind: g.wind[idx]}
}

// Base is the classic Karafyllidis–Thanailakis rule: neighbour states
// weighted by height factors, with a fixed discount on diagonals.
type Base struct {
	name    string
	capping Capping
}

// Name returns the rule's registry name.
func (r *Base) Name() string { return r.name }

// Apply computes state + Σadj hf·s + 0.83·Σdiag hf·s.
func (r *Base) Apply(v *View, idx int) Next {
	g := v.Grid
	if terminal(g, idx) {
		return unchanged(g, idx)
	}
	hf := &g.factors[idx]
	cur := g.state[idx]
	next := cur
	for _, o := range core.Adjacent {
		if n, ok := g.Neighbor(idx, o); ok {
			next += hf.At(o) * g.state[n]
		}
	}
	if next < 1 {
		var diag float64
		for _, o := range core.Diagonal {
			if n, ok := g.Neighbor(idx, o); ok {
				diag += hf.At(o) * g.state[n]
			}
		}
		next += diagonalDiscount * diag
	}
	return Next{State: r.capping.settle(next, cur), Deficit: g.deficit[idx], Wind: 1}
}

// spread carries the terms shared by the normalised rules.
type spread struct {
	name           string
	capping        Capping
	exponent       float64
	requireBurning bool
}

func (s *spread) Name() string { return s.name }

func pow(x, p float64) float64 {
	switch p {
	case 1:
		return x
	case 2:
		return x * x
	default:
		return math.Pow(x, p)
	}
}

func (s *spread) hasBurningNeighbor(g *Grid, idx int) bool {
	for _, o := range core.Moore {
		if n, ok := g.Neighbor(idx, o); ok && g.state[n] == 1 {
			return true
		}
	}
	return false
}

// raw evaluates the normalised formula with wind component wc:
//
//	(ros·sr/max)·s + Σadj wc·hf·ros·sr·s / max + π/(4·max²)·Σdiag wc·hf·ros^p·sr·s
func (s *spread) raw(v *View, idx int, wc float64) float64 {
	g := v.Grid
	hf := &g.factors[idx]
	maxROS := v.MaxROS

	next := g.ros[idx] * factors.SpreadReduction(g.deficit[idx]) / maxROS * g.state[idx]

	var adj float64
	for _, o := range core.Adjacent {
		n, ok := g.Neighbor(idx, o)
		if !ok {
			continue
		}
		adj += wc * hf.At(o) * g.ros[n] * factors.SpreadReduction(g.deficit[n]) * g.state[n]
	}
	next += adj / maxROS

	if next < 1 {
		var diag float64
		for _, o := range core.Diagonal {
			n, ok := g.Neighbor(idx, o)
			if !ok {
				continue
			}
			diag += wc * hf.At(o) * pow(g.ros[n], s.exponent) * factors.SpreadReduction(g.deficit[n]) * g.state[n]
		}
		next += diag * math.Pi / (4 * maxROS * maxROS)
	}
	return next
}

// Extended is the Hernández Encinas et al. rule: rates of spread normalised
// by the grid maximum, no wind and no rain.
type Extended struct {
	spread
}

// Apply computes the normalised formula with a unit wind component.
func (r *Extended) Apply(v *View, idx int) Next {
	g := v.Grid
	if terminal(g, idx) {
		return unchanged(g, idx)
	}
	if r.requireBurning && !r.hasBurningNeighbor(g, idx) {
		return unchanged(g, idx)
	}
	next := r.raw(v, idx, 1)
	return Next{State: r.capping.settle(next, g.state[idx]), Deficit: g.deficit[idx], Wind: 1}
}

// Combined extends Extended with a per-step wind component and rain.
type Combined struct {
	spread
}

// Apply samples wind, evaluates the normalised formula and folds in rain.
func (r *Combined) Apply(v *View, idx int) Next {
	g := v.Grid
	if terminal(g, idx) {
		return unchanged(g, idx)
	}
	if r.requireBurning && !r.hasBurningNeighbor(g, idx) {
		return unchanged(g, idx)
	}
	fireDeg, burning := factors.FireDirection(factors.NeighborStates(g.Lattice, g.state, idx))
	u := gustDraw(v, idx)
	wc := v.Wind.Factor(v.Weather, fireDeg, burning, u)

	next := r.raw(v, idx, wc)
	next, deficit := factors.ApplyRain(g.rain[idx], g.deficit[idx], next)
	return Next{State: r.capping.settle(next, g.state[idx]), Deficit: deficit, Wind: wc}
}

// gustDraw is the cell's uniform draw for this step. It depends only on the
// seed, step and index, never on visiting order.
func gustDraw(v *View, idx int) float64 {
	return rng.CellFloat64(v.Seed, v.Step, idx)
}
