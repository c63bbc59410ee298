package tracker

import (
	"testing"

	"github.com/pthm-cable/fluidsim/internal/grid"
)

func newGrid(rows []string) *grid.Grid[byte] {
	g := grid.New[byte](len(rows), len(rows[0]))
	for x, row := range rows {
		copy(g.Row(x), row)
	}
	return g
}

func TestSyncFindsTrackedParticle(t *testing.T) {
	g := newGrid([]string{
		"#####",
		"#o  #",
		"#   #",
		"#####",
	})

	tr := New([]byte{'o'})
	tr.Sync(g)

	pos, ok := tr.Position('o')
	if !ok {
		t.Fatal("Position('o') reported not tracked")
	}
	if pos.X != 1 || pos.Y != 1 {
		t.Errorf("Position('o') = (%d,%d), want (1,1)", pos.X, pos.Y)
	}
}

func TestSyncUpdatesAfterMove(t *testing.T) {
	g1 := newGrid([]string{
		"#####",
		"#o  #",
		"#####",
	})
	g2 := newGrid([]string{
		"#####",
		"# o #",
		"#####",
	})

	tr := New([]byte{'o'})
	tr.Sync(g1)
	tr.Sync(g2)

	pos, _ := tr.Position('o')
	if pos.X != 1 || pos.Y != 2 {
		t.Errorf("Position('o') after move = (%d,%d), want (1,2)", pos.X, pos.Y)
	}
}

func TestWatchingUnknownCharacter(t *testing.T) {
	tr := New([]byte{'o'})
	if tr.Watching('x') {
		t.Error("Watching('x') = true, want false")
	}
	if _, ok := tr.Position('x'); ok {
		t.Error("Position('x') reported tracked")
	}
}
