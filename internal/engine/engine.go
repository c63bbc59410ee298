// Package engine implements the tick update: the five-phase state machine
// (external forces, pressure forces, flow propagation, pressure
// recalculation, random advection) that evolves a loaded grid one tick at
// a time, per spec.md §4.4.
package engine

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/pthm-cable/fluidsim/internal/grid"
	"github.com/pthm-cable/fluidsim/internal/numeric"
	"github.com/pthm-cable/fluidsim/internal/vectorfield"
	"github.com/pthm-cable/fluidsim/internal/worker"
)

const (
	Wall   = '#'
	Source = '.'
	Air    = ' '
)

// DefaultGravity is the external body-force constant applied every tick,
// in the velocity numeric kind's units, absent an overriding config value.
const DefaultGravity = 0.1

// DefaultSaturationEpsilon is the threshold below which an edge's flow is
// considered saturated (flow == capacity) during propagate_flow, absent
// an overriding config value.
const DefaultSaturationEpsilon = 1e-4

// DefaultSeed is the engine's default single pseudorandom source. The
// original hard-codes 1337 so that every run is reproducible by default;
// tests depend on New's use of this default.
const DefaultSeed = 1337

// Params holds the tunables New specializes an Engine over, layered in
// from internal/config rather than hard-coded, so --config can move them.
type Params struct {
	Gravity           float64
	SaturationEpsilon float64
	Seed              int64
}

// DefaultParams returns the original's hard-coded tunables.
func DefaultParams() Params {
	return Params{
		Gravity:           DefaultGravity,
		SaturationEpsilon: DefaultSaturationEpsilon,
		Seed:              DefaultSeed,
	}
}

// Engine owns the grid and all per-cell state for one tick-evolving
// simulation, specialized over a (P, V, VF) numeric triple.
type Engine struct {
	rows, cols int

	field   *grid.Grid[byte]
	p, oldP *grid.Grid[numeric.Number]
	pMu     *grid.Grid[*sync.Mutex]
	vMu     *grid.Grid[*sync.Mutex]

	velocity     *vectorfield.Field
	velocityFlow *vectorfield.Field

	dirs    *grid.Grid[int]
	lastUse *grid.Grid[int]
	ut      int

	rho [256]numeric.Number

	gravity           float64
	saturationEpsilon float64

	pZero, vZero, vfZero numeric.Number

	rng *rand.Rand

	pool       *worker.Pool
	renderPool *worker.RenderPool

	// OnSnapshot, if set, is invoked with a stable clone of the field
	// whenever a tick moves a particle — the rendering trigger.
	OnSnapshot func(tick int, field *grid.Grid[byte])
}

// New constructs an Engine specialized over pZero/vZero/vfZero's concrete
// numeric kinds, using DefaultParams. The returned Engine has no grid
// until Load is called.
func New(pZero, vZero, vfZero numeric.Number) *Engine {
	return NewWithParams(pZero, vZero, vfZero, DefaultParams())
}

// NewWithParams is New with explicit tunables, letting a caller (the
// factory, wiring internal/config's EngineConfig) override gravity,
// saturation epsilon, and the PRNG seed instead of taking the defaults.
func NewWithParams(pZero, vZero, vfZero numeric.Number, params Params) *Engine {
	e := &Engine{
		pZero:             pZero,
		vZero:             vZero,
		vfZero:            vfZero,
		gravity:           params.Gravity,
		saturationEpsilon: params.SaturationEpsilon,
		rng:               rand.New(rand.NewSource(params.Seed)),
	}
	// Resolved Open Question (spec.md §9): rho for unassigned characters
	// (fluid particles) defaults to an ordinary fluid density of 1.
	// Populated for every byte value up front, rather than lazily on
	// first use, since rhoOf is called concurrently from the row-parallel
	// phases and a lazy fill would race.
	one := pZero.Same(1)
	for c := range e.rho {
		e.rho[c] = one
	}
	e.rho[' '] = pZero.SameFloat(0.01)
	e.rho['.'] = pZero.SameFloat(1000)
	return e
}

// InitWorkers allocates the row-task pool (n workers) and the dedicated
// single-goroutine render pool. Must be called once before Next.
func (e *Engine) InitWorkers(n int) error {
	if n < 1 {
		return fmt.Errorf("engine: worker count must be at least 1, got %d", n)
	}
	e.pool = worker.New(n)
	e.renderPool = worker.NewRenderPool()
	return nil
}

// Close releases the worker pools.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
	if e.renderPool != nil {
		e.renderPool.Wait()
		e.renderPool.Close()
	}
}

// Rows/Cols expose the loaded grid's shape.
func (e *Engine) Rows() int { return e.rows }
func (e *Engine) Cols() int { return e.cols }

// Field returns the live character grid. Callers must not mutate it
// directly; it is exposed for rendering and checkpointing.
func (e *Engine) Field() *grid.Grid[byte] { return e.field }

// UT returns the current generation counter.
func (e *Engine) UT() int { return e.ut }

// SetUT overrides the generation counter, used when resuming from a
// checkpoint.
func (e *Engine) SetUT(ut int) { e.ut = ut }

// P returns the pressure at (x,y).
func (e *Engine) P(x, y int) numeric.Number { return e.p.At(x, y) }

// Velocity returns the full velocity 4-vector at (x,y).
func (e *Engine) Velocity(x, y int) [4]numeric.Number { return e.velocity.Vector(x, y) }

// VelocityFlow returns the full velocity-flow 4-vector at (x,y).
func (e *Engine) VelocityFlow(x, y int) [4]numeric.Number { return e.velocityFlow.Vector(x, y) }

// LastUse returns the generation counter at which (x,y) was last visited.
func (e *Engine) LastUse(x, y int) int { return e.lastUse.At(x, y) }

// Dirs returns the precomputed non-wall-neighbor count at (x,y).
func (e *Engine) Dirs(x, y int) int { return e.dirs.At(x, y) }

// Load reads the field file format from r: a first line "N K T", followed
// by N lines of exactly K characters. The outer border must be '#'; Load
// fails fast (an I/O-class error) if it isn't, per spec.md §9's
// precondition note.
func (e *Engine) Load(r io.Reader) (startTick int, err error) {
	br := bufio.NewReader(r)
	var n, k, t int
	if _, err := fmt.Fscan(br, &n, &k, &t); err != nil {
		return 0, fmt.Errorf("engine: reading field header: %w", err)
	}
	// consume the rest of the header line
	br.ReadString('\n')

	rows := make([][]byte, n)
	for i := 0; i < n; i++ {
		line, err := br.ReadString('\n')
		if err != nil && len(line) == 0 {
			return 0, fmt.Errorf("engine: reading field row %d: %w", i, err)
		}
		for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
			line = line[:len(line)-1]
		}
		if len(line) != k {
			return 0, fmt.Errorf("engine: row %d has %d characters, want %d", i, len(line), k)
		}
		rows[i] = []byte(line)
	}

	if err := validateBorder(rows, n, k); err != nil {
		return 0, err
	}

	e.initGrids(n, k, rows)
	return t, nil
}

// InitFromCheckpoint rebuilds the grid from a checkpoint's field rows,
// skipping the border validation Load performs (a checkpoint is assumed
// to have been produced by this same engine, not hand-authored) and
// restoring the generation counter instead of resetting it to 0.
func (e *Engine) InitFromCheckpoint(n, k int, rows [][]byte, ut int) {
	e.initGrids(n, k, rows)
	e.ut = ut
}

// VelocityZero and PressureZero expose the engine's numeric zero values
// so a checkpoint reader can construct Numbers of the right concrete
// kind without knowing it.
func (e *Engine) VelocityZero() numeric.Number { return e.vZero }
func (e *Engine) PressureZero() numeric.Number { return e.pZero }

// SetVelocityVector overwrites the full velocity 4-vector at (x,y).
func (e *Engine) SetVelocityVector(x, y int, v [4]numeric.Number) {
	e.velocity.SetVector(x, y, v)
}

// SetP overwrites the pressure at (x,y).
func (e *Engine) SetP(x, y int, v numeric.Number) {
	e.p.Set(x, y, v)
}

func validateBorder(rows [][]byte, n, k int) error {
	for y := 0; y < k; y++ {
		if rows[0][y] != Wall || rows[n-1][y] != Wall {
			return fmt.Errorf("engine: outer border must be '#': column %d", y)
		}
	}
	for x := 0; x < n; x++ {
		if rows[x][0] != Wall || rows[x][k-1] != Wall {
			return fmt.Errorf("engine: outer border must be '#': row %d", x)
		}
	}
	return nil
}

func (e *Engine) initGrids(n, k int, rows [][]byte) {
	e.rows, e.cols = n, k
	e.field = grid.New[byte](n, k)
	for x := 0; x < n; x++ {
		copy(e.field.Row(x), rows[x])
	}

	e.velocity = vectorfield.New(n, k, e.vZero)
	e.velocityFlow = vectorfield.New(n, k, e.vfZero)
	e.dirs = grid.New[int](n, k)
	e.lastUse = grid.New[int](n, k)
	e.ut = 0

	e.p = grid.New[numeric.Number](n, k)
	e.oldP = grid.New[numeric.Number](n, k)
	e.pMu = grid.New[*sync.Mutex](n, k)
	e.vMu = grid.New[*sync.Mutex](n, k)
	for x := 0; x < n; x++ {
		for y := 0; y < k; y++ {
			e.p.Set(x, y, e.pZero.Same(0))
			e.oldP.Set(x, y, e.pZero.Same(0))
			e.pMu.Set(x, y, &sync.Mutex{})
			e.vMu.Set(x, y, &sync.Mutex{})
		}
	}

	for x := 0; x < n; x++ {
		for y := 0; y < k; y++ {
			if e.field.At(x, y) == Wall {
				continue
			}
			count := 0
			for _, d := range vectorfield.Deltas {
				if e.field.At(x+d[0], y+d[1]) != Wall {
					count++
				}
			}
			e.dirs.Set(x, y, count)
		}
	}
}

// Next runs one full tick (phases A through E) and returns whether any
// particle actually moved. If OnSnapshot is set and something moved,
// the snapshot is submitted to the render pool to run asynchronously
// while the next tick's phases A-D proceed; the render pool is only
// ever waited on here, right before phase E, matching the original's
// output_handler.wait_until_end() placement.
func (e *Engine) Next(tick int) bool {
	e.applyExternalForces()
	e.applyPressureForces()
	e.applyForcesOnFlow()
	e.recalculatePressure()

	if e.renderPool != nil {
		e.renderPool.Wait()
	}

	moved := e.applyMoveOnFlow()

	if moved && e.OnSnapshot != nil {
		snapshot := e.field.Clone()
		if e.renderPool != nil {
			e.renderPool.Submit(func() { e.OnSnapshot(tick, snapshot) })
		} else {
			e.OnSnapshot(tick, snapshot)
		}
	}

	return moved
}

func (e *Engine) isWall(x, y int) bool {
	return e.field.At(x, y) == Wall
}

// rhoOf returns the density constant for the cell character c.
func (e *Engine) rhoOf(c byte) numeric.Number {
	return e.rho[c]
}

// updateP adds val to p[x][y] under that cell's dedicated mutex — the
// synchronized pressure write every phase uses, whether the destination
// is the worker's own row or a neighbor's.
func (e *Engine) updateP(x, y int, val numeric.Number) {
	mu := e.pMu.At(x, y)
	mu.Lock()
	e.p.Set(x, y, e.p.At(x, y).Add(val))
	mu.Unlock()
}

// withVelocityLock runs fn with exclusive access to (x,y)'s velocity
// 4-vector, guarding the phase-B cross-row write to a neighbor's
// back-pointing velocity component.
func (e *Engine) withVelocityLock(x, y int, fn func()) {
	mu := e.vMu.At(x, y)
	mu.Lock()
	fn()
	mu.Unlock()
}
