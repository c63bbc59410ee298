// Package guirender draws live tick snapshots in a raylib window, for
// runs started with --gui. Grounded on the teacher's terrain renderer:
// one filled rectangle per non-air cell, colored by cell kind.
package guirender

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluidsim/internal/grid"
)

var (
	wallColor     = rl.Color{R: 90, G: 90, B: 100, A: 255}
	sourceColor   = rl.Color{R: 50, G: 120, B: 220, A: 255}
	particleColor = rl.Color{R: 230, G: 180, B: 60, A: 255}
)

// Window owns the raylib window and draws one grid snapshot per Draw
// call. Must be constructed and used from a single goroutine — raylib
// is not safe to call concurrently.
type Window struct {
	cellSize int32
	rows     int
	cols     int
}

// Open creates the raylib window sized to rows x cols cells of cellSize
// pixels and sets the target frame rate.
func Open(rows, cols, cellSize, targetFPS int) *Window {
	w := &Window{cellSize: int32(cellSize), rows: rows, cols: cols}
	rl.InitWindow(int32(cols*cellSize), int32(rows*cellSize), "fluidsim")
	rl.SetTargetFPS(int32(targetFPS))
	return w
}

// Close releases the raylib window.
func (w *Window) Close() {
	rl.CloseWindow()
}

// ShouldClose reports whether the user closed the window.
func (w *Window) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// Draw renders one tick's field grid.
func (w *Window) Draw(tick int, field *grid.Grid[byte]) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	for x := 0; x < field.Rows(); x++ {
		row := field.Row(x)
		for y, c := range row {
			color, ok := colorFor(c)
			if !ok {
				continue
			}
			rl.DrawRectangle(int32(y)*w.cellSize, int32(x)*w.cellSize, w.cellSize, w.cellSize, color)
		}
	}

	rl.DrawText(fmt.Sprintf("tick %d", tick), 4, 4, 16, rl.RayWhite)
	rl.EndDrawing()
}

func colorFor(c byte) (rl.Color, bool) {
	switch c {
	case ' ':
		return rl.Color{}, false
	case '#':
		return wallColor, true
	case '.':
		return sourceColor, true
	default:
		return particleColor, true
	}
}
