// Package vectorfield wraps a per-cell 4-vector addressed by unit delta
// direction, matching the original's direction-indexed VectorField.
package vectorfield

import (
	"fmt"

	"github.com/pthm-cable/fluidsim/internal/grid"
	"github.com/pthm-cable/fluidsim/internal/numeric"
)

// Deltas enumerates the four axis-aligned directions in the fixed index
// order the whole engine relies on: 0=(-1,0) up, 1=(+1,0) down,
// 2=(0,-1) left, 3=(0,+1) right.
var Deltas = [4][2]int{
	{-1, 0},
	{1, 0},
	{0, -1},
	{0, 1},
}

// DirIndex maps a unit delta to its direction index, matching the
// original's switch on (dx<<1)+dy. Panics on any other (dx,dy): an
// invalid direction is a precondition violation, not a runtime case to
// handle gracefully.
func DirIndex(dx, dy int) int {
	switch (dx << 1) + dy {
	case -2: // dx=-1, dy=0
		return 0
	case 2: // dx=1, dy=0
		return 1
	case -1: // dx=0, dy=-1
		return 2
	case 1: // dx=0, dy=1
		return 3
	default:
		panic(fmt.Sprintf("vectorfield: invalid direction (%d,%d)", dx, dy))
	}
}

// Field is a grid of per-cell 4-vectors of numeric.Number.
type Field struct {
	cells *grid.Grid[[4]numeric.Number]
	zero  numeric.Number
}

// New builds a Field of the given shape, every component initialized to
// zero's concrete numeric kind.
func New(rows, cols int, zero numeric.Number) *Field {
	g := grid.New[[4]numeric.Number](rows, cols)
	fillZero(g, zero)
	return &Field{cells: g, zero: zero}
}

func fillZero(g *grid.Grid[[4]numeric.Number], zero numeric.Number) {
	z := zero.Same(0)
	for x := 0; x < g.Rows(); x++ {
		row := g.Row(x)
		for y := range row {
			row[y] = [4]numeric.Number{z, z, z, z}
		}
	}
}

// Clear resets every component back to zero (used at the start of the
// flow phase).
func (f *Field) Clear() {
	fillZero(f.cells, f.zero)
}

// Get returns the component pointing in direction (dx,dy) at (x,y).
func (f *Field) Get(x, y, dx, dy int) numeric.Number {
	return f.cells.At(x, y)[DirIndex(dx, dy)]
}

// Set assigns the component pointing in direction (dx,dy) at (x,y).
func (f *Field) Set(x, y, dx, dy int, v numeric.Number) {
	cell := f.cells.Ptr(x, y)
	cell[DirIndex(dx, dy)] = v
}

// Add is equivalent to Set(x, y, dx, dy, Get(x,y,dx,dy) + dv).
func (f *Field) Add(x, y, dx, dy int, dv numeric.Number) numeric.Number {
	cell := f.cells.Ptr(x, y)
	idx := DirIndex(dx, dy)
	cell[idx] = cell[idx].Add(dv)
	return cell[idx]
}

// Vector returns a copy of the full 4-vector at (x,y), indexed exactly by
// Deltas's order.
func (f *Field) Vector(x, y int) [4]numeric.Number {
	return f.cells.At(x, y)
}

// SetVector overwrites the full 4-vector at (x,y), used by the particle
// swap in propagate_move.
func (f *Field) SetVector(x, y int, v [4]numeric.Number) {
	f.cells.Set(x, y, v)
}

// Rows/Cols expose the backing grid's shape.
func (f *Field) Rows() int { return f.cells.Rows() }
func (f *Field) Cols() int { return f.cells.Cols() }
