package engine

import (
	"github.com/pthm-cable/fluidsim/internal/numeric"
	"github.com/pthm-cable/fluidsim/internal/vectorfield"
)

// applyExternalForces is phase A: gravity accumulates in the +x velocity
// component of every non-wall cell whose downward neighbor is also
// non-wall. Each row only ever touches its own velocity cells, so no
// cross-row synchronization is needed here.
func (e *Engine) applyExternalForces() {
	g := e.vZero.SameFloat(e.gravity)
	e.pool.Run(e.rows, func(x int) {
		for y := 0; y < e.cols; y++ {
			if e.isWall(x, y) {
				continue
			}
			if !e.isWall(x+1, y) {
				e.velocity.Add(x, y, 1, 0, g)
			}
		}
	})
}

// applyPressureForces is phase B: pressure differences across edges push
// velocity against the source of lower pressure, consuming any opposing
// velocity first. old_p is a snapshot taken before any writes this phase.
func (e *Engine) applyPressureForces() {
	e.oldP.CopyFrom(e.p)

	e.pool.Run(e.rows, func(x int) {
		for y := 0; y < e.cols; y++ {
			if e.isWall(x, y) {
				continue
			}
			for _, d := range vectorfield.Deltas {
				dx, dy := d[0], d[1]
				nx, ny := x+dx, y+dy
				if e.isWall(nx, ny) {
					continue
				}
				oldPHere := e.oldP.At(x, y)
				oldPThere := e.oldP.At(nx, ny)
				if !oldPThere.Less(oldPHere) {
					continue
				}
				force := oldPHere.Sub(oldPThere)

				consumed := false
				e.withVelocityLock(nx, ny, func() {
					contr := e.velocity.Get(nx, ny, -dx, -dy)
					rhoThere := e.rhoOf(e.field.At(nx, ny))
					contrAsForce := numeric.Convert(e.pZero, contr).Mul(rhoThere)
					if force.Less(contrAsForce) || force.Equal(contrAsForce) {
						// contr*rho >= force: consume part of contr and stop.
						newContr := contr.Sub(numeric.Convert(e.vZero, force.Div(rhoThere)))
						e.velocity.Set(nx, ny, -dx, -dy, newContr)
						consumed = true
						return
					}
					force = force.Sub(contrAsForce)
					e.velocity.Set(nx, ny, -dx, -dy, contr.Same(0))
				})
				if consumed {
					continue
				}

				rhoHere := e.rhoOf(e.field.At(x, y))
				e.velocity.Add(x, y, dx, dy, numeric.Convert(e.vZero, force.Div(rhoHere)))
				e.updateP(x, y, force.Div(e.pZero.Same(int64(e.dirs.At(x, y)))).Neg())
			}
		}
	})
}

// recalculatePressure is phase D: the flow realized during phase C
// replaces each edge's velocity with its committed flow, and the
// difference in momentum is converted back into pressure at whichever
// side absorbed it — the destination cell if it isn't a wall, else the
// source cell itself (a wall bounce).
func (e *Engine) recalculatePressure() {
	e.pool.Run(e.rows, func(x int) {
		for y := 0; y < e.cols; y++ {
			if e.isWall(x, y) {
				continue
			}
			for _, d := range vectorfield.Deltas {
				dx, dy := d[0], d[1]
				oldV := e.velocity.Get(x, y, dx, dy)
				newVF := e.velocityFlow.Get(x, y, dx, dy)
				newV := numeric.Convert(e.vZero, newVF)
				if oldV.Float64() <= 0 {
					continue
				}
				assertf(!oldV.Less(newV), "velocity_flow %v exceeds velocity %v at (%d,%d) dir (%d,%d)", newV, oldV, x, y, dx, dy)
				e.velocity.Set(x, y, dx, dy, newV)

				force := numeric.Convert(e.pZero, oldV.Sub(newV)).Mul(e.rhoOf(e.field.At(x, y)))
				if e.field.At(x, y) == Source {
					force = force.Mul(e.pZero.SameFloat(0.8))
				}

				fx, fy := x+dx, y+dy
				if e.isWall(fx, fy) {
					e.updateP(x, y, force.Div(e.pZero.Same(int64(e.dirs.At(x, y)))))
				} else {
					e.updateP(fx, fy, force.Div(e.pZero.Same(int64(e.dirs.At(fx, fy)))))
				}
			}
		}
	})
}
