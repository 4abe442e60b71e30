package core

// Offset is a relative step between neighbouring cells in public coordinates.
type Offset struct {
	DX, DY int
}

// Von Neumann offsets.
var (
	North = Offset{DX: 0, DY: 1}
	East  = Offset{DX: 1, DY: 0}
	South = Offset{DX: 0, DY: -1}
	West  = Offset{DX: -1, DY: 0}
)

// Diagonal offsets.
var (
	NorthWest = Offset{DX: -1, DY: 1}
	NorthEast = Offset{DX: 1, DY: 1}
	SouthEast = Offset{DX: 1, DY: -1}
	SouthWest = Offset{DX: -1, DY: -1}
)

// Adjacent lists the four edge-sharing neighbours.
var Adjacent = [4]Offset{North, East, South, West}

// Diagonal lists the four corner-sharing neighbours.
var Diagonal = [4]Offset{NorthWest, NorthEast, SouthEast, SouthWest}

// Moore is the eight-neighbour set: Adjacent followed by Diagonal.
var Moore = [8]Offset{North, East, South, West, NorthWest, NorthEast, SouthEast, SouthWest}

// IsDiagonal reports whether the offset moves along both axes.
func (o Offset) IsDiagonal() bool { return o.DX != 0 && o.DY != 0 }

// IsHorizontal reports whether the offset moves only along x.
func (o Offset) IsHorizontal() bool { return o.DX != 0 && o.DY == 0 }

// IsVertical reports whether the offset moves only along y.
func (o Offset) IsVertical() bool { return o.DX == 0 && o.DY != 0 }

// Matrix3 holds one value per relative offset in a 3×3 block. Row 0 is the
// upper row (dy = +1); the centre entry is unused.
type Matrix3 [3][3]float64

// UnitMatrix3 returns a matrix with every entry set to 1.
func UnitMatrix3() Matrix3 {
	return Matrix3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
}

// At returns the value stored for offset o.
func (m *Matrix3) At(o Offset) float64 { return m[1-o.DY][o.DX+1] }

// Set stores v for offset o.
func (m *Matrix3) Set(o Offset, v float64) { m[1-o.DY][o.DX+1] = v }
