package engine

import (
	"sort"

	"github.com/pthm-cable/fluidsim/internal/numeric"
	"github.com/pthm-cable/fluidsim/internal/vectorfield"
)

// propagateFlow is the recursive core of phase C. It commits up to lim
// (in velocity-flow units) of flow out of (x,y) along edges with spare
// capacity, recursing into neighbors not yet visited this sweep
// (last_use < UT-1). Flow is only committed once the walk reaches a
// neighbor still reserved on the current recursion stack (last_use ==
// UT-1), i.e. closes a cycle. Returns the amount committed, whether the
// cycle is still open above (x,y), and the reserved cell that closed it
// (or (-1,-1) if none).
func (e *Engine) propagateFlow(x, y int, lim numeric.Number) (numeric.Number, bool, [2]int) {
	e.lastUse.Set(x, y, e.ut-1)
	ret := e.vfZero.Same(0)

	for _, d := range vectorfield.Deltas {
		dx, dy := d[0], d[1]
		nx, ny := x+dx, y+dy
		if e.isWall(nx, ny) || e.lastUse.At(nx, ny) >= e.ut {
			continue
		}
		cap := e.velocity.Get(x, y, dx, dy)
		flow := e.velocityFlow.Get(x, y, dx, dy)
		capVF := numeric.Convert(e.vfZero, cap)
		diff := capVF.Sub(flow)
		if diff.Abs().Float64() <= e.saturationEpsilon {
			continue
		}
		vp := numeric.Min(lim, diff)

		if e.lastUse.At(nx, ny) == e.ut-1 {
			e.velocityFlow.Add(x, y, dx, dy, vp)
			e.lastUse.Set(x, y, e.ut)
			return vp, true, [2]int{nx, ny}
		}

		var t numeric.Number
		var prop bool
		var end [2]int
		for {
			t, prop, end = e.propagateFlow(nx, ny, vp)
			if end != [2]int{nx, ny} {
				break
			}
		}
		ret = ret.Add(t)
		if prop {
			e.velocityFlow.Add(x, y, dx, dy, t)
			e.lastUse.Set(x, y, e.ut)
			return t, end != [2]int{x, y}, end
		}
	}

	e.lastUse.Set(x, y, e.ut)
	return ret, false, [2]int{-1, -1}
}

// applyForcesOnFlow is phase C: repeatedly sweeps the grid committing
// flow along edges with spare velocity capacity until a full sweep
// commits nothing, per the fixed-point iteration spec.md §4.4 describes.
// Re-visiting the same y after a successful propagation (the y-- below)
// mirrors the original's retry-in-place behavior.
func (e *Engine) applyForcesOnFlow() {
	e.velocityFlow.Clear()
	one := e.vfZero.Same(1)
	for {
		e.ut += 2
		prop := false
		for x := 0; x < e.rows; x++ {
			for y := 0; y < e.cols; y++ {
				if e.isWall(x, y) || e.lastUse.At(x, y) == e.ut {
					continue
				}
				t, _, _ := e.propagateFlow(x, y, one)
				if t.Float64() > 0 {
					prop = true
					y--
				}
			}
		}
		if !prop {
			break
		}
	}
}

// isStoppable reports whether every non-wall neighbor of (x,y) either
// is reserved or finalized in the current sweep (last_use >= UT-1) or
// receives no positive velocity from (x,y).
func (e *Engine) isStoppable(x, y int) bool {
	for _, d := range vectorfield.Deltas {
		dx, dy := d[0], d[1]
		nx, ny := x+dx, y+dy
		if e.isWall(nx, ny) {
			continue
		}
		if e.lastUse.At(nx, ny) < e.ut-1 && e.velocity.Get(x, y, dx, dy).Float64() > 0 {
			return false
		}
	}
	return true
}

// propagateStop flood-fills outward from (x0,y0), marking every
// reachable stoppable neighbor as finalized this generation. Uses an
// explicit stack rather than recursion since the reachable region can
// span the whole grid.
func (e *Engine) propagateStop(x0, y0 int) {
	stack := [][2]int{{x0, y0}}
	e.lastUse.Set(x0, y0, e.ut)
	for len(stack) > 0 {
		x, y := stack[len(stack)-1][0], stack[len(stack)-1][1]
		stack = stack[:len(stack)-1]
		for _, d := range vectorfield.Deltas {
			dx, dy := d[0], d[1]
			nx, ny := x+dx, y+dy
			if e.isWall(nx, ny) || e.lastUse.At(nx, ny) == e.ut || e.velocity.Get(x, y, dx, dy).Float64() > 0 {
				continue
			}
			if !e.isStoppable(nx, ny) {
				continue
			}
			e.lastUse.Set(nx, ny, e.ut)
			stack = append(stack, [2]int{nx, ny})
		}
	}
}

// moveProbability sums the positive velocity components leaving (x,y)
// toward not-yet-finalized neighbors; apply_move_on_flow draws against
// this to decide whether (x,y)'s particle attempts to move this tick.
func (e *Engine) moveProbability(x, y int) numeric.Number {
	sum := e.vZero.Same(0)
	for _, d := range vectorfield.Deltas {
		dx, dy := d[0], d[1]
		nx, ny := x+dx, y+dy
		if e.isWall(nx, ny) || e.lastUse.At(nx, ny) == e.ut {
			continue
		}
		v := e.velocity.Get(x, y, dx, dy)
		if v.Float64() < 0 {
			continue
		}
		sum = sum.Add(v)
	}
	return sum
}

// swap exchanges the field character, pressure, and full velocity
// 4-vector between two cells. velocity_flow and last_use are left
// untouched, matching the original: they describe this sweep's
// bookkeeping, not the particle occupying the cell.
func (e *Engine) swap(x1, y1, x2, y2 int) {
	f1, f2 := e.field.At(x1, y1), e.field.At(x2, y2)
	e.field.Set(x1, y1, f2)
	e.field.Set(x2, y2, f1)

	p1, p2 := e.p.At(x1, y1), e.p.At(x2, y2)
	e.p.Set(x1, y1, p2)
	e.p.Set(x2, y2, p1)

	v1, v2 := e.velocity.Vector(x1, y1), e.velocity.Vector(x2, y2)
	e.velocity.SetVector(x1, y1, v2)
	e.velocity.SetVector(x2, y2, v1)
}

// propagateMove walks a chain of particle displacements starting at
// (x,y), picking each step's direction by drawing a random number
// against the cumulative positive-velocity distribution (the
// upper_bound equivalent via sort.Search), recursing until the chain
// steps back onto the reserved starting cell (last_use == UT-1). Returns
// whether the whole chain completed. Only the is_first=false calls swap:
// each one that succeeds exchanges its cell with the next cell of the
// chain; the top-level is_first=true call performs no swap of its own.
func (e *Engine) propagateMove(x, y int, isFirst bool) bool {
	if isFirst {
		e.lastUse.Set(x, y, e.ut-1)
	} else {
		e.lastUse.Set(x, y, e.ut)
	}
	ret := false
	nx, ny := -1, -1

	for {
		tres := make([]float64, len(vectorfield.Deltas))
		sum := e.vZero.Same(0)
		for i, d := range vectorfield.Deltas {
			dx, dy := d[0], d[1]
			fx, fy := x+dx, y+dy
			if e.isWall(fx, fy) || e.lastUse.At(fx, fy) == e.ut {
				tres[i] = sum.Float64()
				continue
			}
			v := e.velocity.Get(x, y, dx, dy)
			if v.Float64() < 0 {
				tres[i] = sum.Float64()
				continue
			}
			sum = sum.Add(v)
			tres[i] = sum.Float64()
		}

		if sum.Float64() == 0 {
			break
		}

		randomNum := e.rng.Float64() * sum.Float64()
		d := sort.Search(len(tres), func(i int) bool { return tres[i] > randomNum })
		if d == len(tres) {
			d = len(tres) - 1
		}

		dx, dy := vectorfield.Deltas[d][0], vectorfield.Deltas[d][1]
		nx, ny = x+dx, y+dy
		if e.lastUse.At(nx, ny) == e.ut-1 {
			ret = true
		} else {
			ret = e.propagateMove(nx, ny, false)
		}
		if ret {
			break
		}
	}

	e.lastUse.Set(x, y, e.ut)

	for _, d := range vectorfield.Deltas {
		dx, dy := d[0], d[1]
		fx, fy := x+dx, y+dy
		if !e.isWall(fx, fy) && e.lastUse.At(fx, fy) < e.ut-1 &&
			e.velocity.Get(x, y, dx, dy).Float64() < 0 && e.isStoppable(fx, fy) {
			e.propagateStop(fx, fy)
		}
	}
	if ret && !isFirst {
		e.swap(x, y, nx, ny)
	}
	return ret
}

// applyMoveOnFlow is phase E: every non-finalized cell draws against its
// move probability and either starts a propagate_move chain or, failing
// that draw, finalizes itself and its stoppable neighborhood via
// propagate_stop. Returns whether anything in the grid moved, which
// gates whether a render snapshot is worth taking.
func (e *Engine) applyMoveOnFlow() bool {
	e.ut += 2
	prop := false
	for x := 0; x < e.rows; x++ {
		for y := 0; y < e.cols; y++ {
			if e.isWall(x, y) || e.lastUse.At(x, y) == e.ut {
				continue
			}
			if e.rng.Float64() < e.moveProbability(x, y).Float64() {
				if e.propagateMove(x, y, true) {
					prop = true
				}
			} else {
				e.propagateStop(x, y)
			}
		}
	}
	return prop
}
