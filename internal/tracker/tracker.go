// Package tracker is a supplementary inspection feature layered on top
// of the tick engine: it gives named fluid particles an ECS identity so
// a caller (a debugger UI, a test, a --track-particles flag) can query a
// specific particle's last-known cell without scanning the grid itself.
// Only the most recent position is kept; no history is recorded. It
// never participates in the tick update itself.
package tracker

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fluidsim/internal/grid"
)

// Position is a tracked particle's last-known cell.
type Position struct {
	X, Y int
	Char byte
}

// Tracker owns a small ECS world whose only purpose is holding one
// entity per tracked particle character.
type Tracker struct {
	world    *ecs.World
	posMap   *ecs.Map1[Position]
	entities map[byte]ecs.Entity
}

// New builds a Tracker watching every character in chars.
func New(chars []byte) *Tracker {
	world := ecs.NewWorld()
	t := &Tracker{
		world:    world,
		posMap:   ecs.NewMap1[Position](world),
		entities: make(map[byte]ecs.Entity, len(chars)),
	}
	for _, c := range chars {
		pos := Position{X: -1, Y: -1, Char: c}
		t.entities[c] = t.posMap.NewEntity(&pos)
	}
	return t
}

// Watching reports whether c is one of the tracked characters.
func (t *Tracker) Watching(c byte) bool {
	_, ok := t.entities[c]
	return ok
}

// Sync rescans field for every tracked character and updates its
// entity's recorded position. Intended to be called once per tick,
// after the engine has advanced, on the grid returned by Engine.Field.
func (t *Tracker) Sync(field *grid.Grid[byte]) {
	remaining := len(t.entities)
	if remaining == 0 {
		return
	}
	for x := 0; x < field.Rows() && remaining > 0; x++ {
		row := field.Row(x)
		for y, c := range row {
			entity, ok := t.entities[c]
			if !ok {
				continue
			}
			pos := t.posMap.Get(entity)
			pos.X, pos.Y = x, y
			remaining--
			if remaining == 0 {
				break
			}
		}
	}
}

// Chars returns every character this Tracker watches, in no particular
// order.
func (t *Tracker) Chars() []byte {
	chars := make([]byte, 0, len(t.entities))
	for c := range t.entities {
		chars = append(chars, c)
	}
	return chars
}

// Position returns c's last-known cell, or ok=false if c isn't tracked.
func (t *Tracker) Position(c byte) (Position, bool) {
	entity, ok := t.entities[c]
	if !ok {
		return Position{}, false
	}
	return *t.posMap.Get(entity), true
}
