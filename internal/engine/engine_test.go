package engine

import (
	"strings"
	"testing"

	"github.com/pthm-cable/fluidsim/internal/numeric"
)

func newTestEngine(t *testing.T, field string, workers int) *Engine {
	t.Helper()
	e := New(numeric.Double(0), numeric.Double(0), numeric.Double(0))
	if _, err := e.Load(strings.NewReader(field)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := e.InitWorkers(workers); err != nil {
		t.Fatalf("InitWorkers: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestAllAirInteriorNeverMoves(t *testing.T) {
	field := "5 5 0\n" +
		"#####\n" +
		"#   #\n" +
		"#   #\n" +
		"#   #\n" +
		"#####\n"
	e := newTestEngine(t, field, 1)

	for i := 0; i < 50; i++ {
		if e.Next(i) {
			t.Fatalf("tick %d: unexpected movement in an all-air interior", i)
		}
	}

	for x := 0; x < e.Rows(); x++ {
		for y := 0; y < e.Cols(); y++ {
			if e.isWall(x, y) {
				continue
			}
			if e.P(x, y).Float64() != 0 {
				t.Errorf("p[%d][%d] = %v, want 0", x, y, e.P(x, y))
			}
			for _, v := range e.Velocity(x, y) {
				if v.Float64() != 0 {
					t.Errorf("velocity[%d][%d] = %v, want 0", x, y, v)
				}
			}
		}
	}
}

func TestGravityAccumulatesAgainstWallFloor(t *testing.T) {
	field := "4 3 0\n" +
		"###\n" +
		"#.#\n" +
		"# #\n" +
		"###\n"
	e := newTestEngine(t, field, 1)

	for i := 0; i < 10; i++ {
		e.Next(i)
	}

	v := e.Velocity(1, 1)
	if v[1].Float64() <= 0 {
		t.Fatalf("velocity[1][1][+1,0] = %v after 10 ticks, want > 0", v[1])
	}
}

func TestParticleFallsDownVerticalPipe(t *testing.T) {
	field := "5 5 0\n" +
		"#####\n" +
		"##.##\n" +
		"##o##\n" +
		"## ##\n" +
		"#####\n"
	e := newTestEngine(t, field, 1)

	reached := false
	for i := 0; i < 100; i++ {
		e.Next(i)
		if e.Field().At(3, 2) == 'o' {
			reached = true
			break
		}
	}
	if !reached {
		t.Fatalf("particle never reached (3,2) within 100 ticks")
	}
}

func TestThreadCountDoesNotAffectOutcome(t *testing.T) {
	field := "6 6 0\n" +
		"######\n" +
		"#.   #\n" +
		"# o  #\n" +
		"#    #\n" +
		"#    #\n" +
		"######\n"

	run := func(workers int) string {
		e := newTestEngine(t, field, workers)
		var sb strings.Builder
		for i := 0; i < 40; i++ {
			if e.Next(i) {
				for x := 0; x < e.Rows(); x++ {
					sb.Write(e.Field().Row(x))
					sb.WriteByte('\n')
				}
			}
		}
		return sb.String()
	}

	single := run(1)
	multi := run(4)
	if single != multi {
		t.Fatalf("output differs between thread counts:\n-- 1 worker --\n%s\n-- 4 workers --\n%s", single, multi)
	}
}

func TestDirsConstantAcrossTicks(t *testing.T) {
	field := "5 5 0\n" +
		"#####\n" +
		"#.  #\n" +
		"# o #\n" +
		"#   #\n" +
		"#####\n"
	e := newTestEngine(t, field, 2)

	before := make([][]int, e.Rows())
	for x := range before {
		before[x] = make([]int, e.Cols())
		for y := range before[x] {
			before[x][y] = e.Dirs(x, y)
		}
	}

	for i := 0; i < 20; i++ {
		e.Next(i)
	}

	for x := 0; x < e.Rows(); x++ {
		for y := 0; y < e.Cols(); y++ {
			if e.Dirs(x, y) != before[x][y] {
				t.Errorf("dirs[%d][%d] changed from %d to %d", x, y, before[x][y], e.Dirs(x, y))
			}
		}
	}
}

func TestWallAdjacentSourcePressureRisesFirstTick(t *testing.T) {
	field := "3 3 0\n" +
		"###\n" +
		"#.#\n" +
		"###\n"
	e := newTestEngine(t, field, 1)

	before := e.P(1, 1).Float64()
	e.Next(0)
	after := e.P(1, 1).Float64()

	if after <= before {
		t.Fatalf("pressure at source cell did not increase: before=%v after=%v", before, after)
	}
}

func TestSaveRestoreResumesEquivalently(t *testing.T) {
	field := "6 6 0\n" +
		"######\n" +
		"#.   #\n" +
		"# o  #\n" +
		"#    #\n" +
		"#    #\n" +
		"######\n"

	const total = 20

	continuous := newTestEngine(t, field, 1)
	for i := 0; i < total; i++ {
		continuous.Next(i)
	}
	wantField := string(fieldBytes(continuous))

	split := newTestEngine(t, field, 1)
	for i := 0; i < total/2; i++ {
		split.Next(i)
	}

	// Restore into a fresh engine through the same hooks checkpoint.Load
	// uses: field rows, generation counter, velocity and pressure.
	restored := New(numeric.Double(0), numeric.Double(0), numeric.Double(0))
	rows := make([][]byte, split.Rows())
	for x := range rows {
		rows[x] = append([]byte(nil), split.Field().Row(x)...)
	}
	restored.InitFromCheckpoint(split.Rows(), split.Cols(), rows, split.UT())
	for x := 0; x < split.Rows(); x++ {
		for y := 0; y < split.Cols(); y++ {
			restored.SetVelocityVector(x, y, split.Velocity(x, y))
			restored.SetP(x, y, split.P(x, y))
		}
	}
	if err := restored.InitWorkers(1); err != nil {
		t.Fatalf("InitWorkers: %v", err)
	}
	t.Cleanup(restored.Close)
	for i := total / 2; i < total; i++ {
		restored.Next(i)
	}
	gotField := string(fieldBytes(restored))

	if gotField != wantField {
		t.Fatalf("split run diverged from continuous run:\ncontinuous:\n%s\nsplit:\n%s", wantField, gotField)
	}
}

func fieldBytes(e *Engine) []byte {
	var out []byte
	for x := 0; x < e.Rows(); x++ {
		out = append(out, e.Field().Row(x)...)
		out = append(out, '\n')
	}
	return out
}
