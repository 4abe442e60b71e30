package core

import "iter"

// Coord addresses a cell in the public coordinate system, origin at the
// bottom-left corner.
type Coord struct {
	X, Y int
}

// Lattice describes a fixed W×H grid stored in row-major order with row 0 at
// the visual top. Public coordinates put (0, 0) at the bottom-left, so every
// lookup applies a row = H-1-y transform.
type Lattice struct {
	W, H int
}

// NewLattice returns a lattice with the given dimensions.
func NewLattice(w, h int) Lattice {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return Lattice{W: w, H: h}
}

// Len returns the number of cells.
func (l Lattice) Len() int { return l.W * l.H }

// InBounds reports whether (x, y) lies on the lattice.
func (l Lattice) InBounds(x, y int) bool {
	return x >= 0 && x < l.W && y >= 0 && y < l.H
}

// Index returns the linear slice index for public coordinates (x, y).
func (l Lattice) Index(x, y int) int { return (l.H-1-y)*l.W + x }

// Coord converts a linear index back into public coordinates.
func (l Lattice) Coord(idx int) Coord {
	row := idx / l.W
	return Coord{X: idx % l.W, Y: l.H - 1 - row}
}

// Neighbor returns the index of the cell at offset o from idx. The boolean is
// false when the offset leaves the lattice.
func (l Lattice) Neighbor(idx int, o Offset) (int, bool) {
	row := idx / l.W
	x := idx%l.W + o.DX
	// Offsets are expressed in public coordinates where +y points up.
	r := row - o.DY
	if x < 0 || x >= l.W || r < 0 || r >= l.H {
		return 0, false
	}
	return r*l.W + x, true
}

// All yields every index with its coordinate in storage order. The sequence is
// finite, restartable and identical for every traversal of the same lattice.
func (l Lattice) All() iter.Seq2[int, Coord] {
	return func(yield func(int, Coord) bool) {
		n := l.Len()
		for idx := 0; idx < n; idx++ {
			if !yield(idx, l.Coord(idx)) {
				return
			}
		}
	}
}
