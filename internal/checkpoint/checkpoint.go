// Package checkpoint saves and restores an engine's full per-cell state
// so a run can be suspended (e.g. on SIGINT) and resumed later without
// losing the generation counter or any in-flight velocity/pressure.
package checkpoint

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/pthm-cable/fluidsim/internal/engine"
	"github.com/pthm-cable/fluidsim/internal/numeric"
	"github.com/pthm-cable/fluidsim/internal/vectorfield"
)

// Save writes e's full state to w: "N K T UT" header, then N rows of K
// cell characters (as their integer codes, one per line, space
// separated), then every cell's velocity 4-vector as doubles, then
// every cell's pressure as a double. The format is self-describing and
// round-trips through Load regardless of the engine's numeric kinds —
// everything is serialized through Float64.
func Save(w io.Writer, e *engine.Engine, tick int) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d %d %d\n", e.Rows(), e.Cols(), tick, e.UT()); err != nil {
		return fmt.Errorf("checkpoint: writing header: %w", err)
	}

	for x := 0; x < e.Rows(); x++ {
		row := e.Field().Row(x)
		for y, c := range row {
			if y > 0 {
				if _, err := bw.WriteString(" "); err != nil {
					return fmt.Errorf("checkpoint: writing field row %d: %w", x, err)
				}
			}
			if _, err := fmt.Fprintf(bw, "%d", c); err != nil {
				return fmt.Errorf("checkpoint: writing field row %d: %w", x, err)
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return fmt.Errorf("checkpoint: writing field row %d: %w", x, err)
		}
	}

	for x := 0; x < e.Rows(); x++ {
		for y := 0; y < e.Cols(); y++ {
			v := e.Velocity(x, y)
			for i, d := range v {
				if i > 0 {
					bw.WriteString(" ")
				}
				fmt.Fprintf(bw, "%.17g", d.Float64())
			}
			bw.WriteString("\n")
		}
	}

	for x := 0; x < e.Rows(); x++ {
		for y := 0; y < e.Cols(); y++ {
			if _, err := fmt.Fprintf(bw, "%.17g\n", e.P(x, y).Float64()); err != nil {
				return fmt.Errorf("checkpoint: writing pressure row %d: %w", x, err)
			}
		}
	}

	return bw.Flush()
}

// Load reads a checkpoint produced by Save into e, which must already be
// constructed with its final (P, V, VF) numeric zero values via
// factory.New. Returns the tick index execution should resume at.
func Load(r io.Reader, e *engine.Engine) (resumeTick int, err error) {
	br := bufio.NewReader(r)

	var n, k, t, ut int
	if _, err := fmt.Fscan(br, &n, &k, &t, &ut); err != nil {
		return 0, fmt.Errorf("checkpoint: reading header: %w", err)
	}
	br.ReadString('\n')

	rows := make([][]byte, n)
	for x := 0; x < n; x++ {
		rows[x] = make([]byte, k)
		for y := 0; y < k; y++ {
			var code int
			if _, err := fmt.Fscan(br, &code); err != nil {
				return 0, fmt.Errorf("checkpoint: reading field cell (%d,%d): %w", x, y, err)
			}
			rows[x][y] = byte(code)
		}
	}

	e.InitFromCheckpoint(n, k, rows, ut)

	for x := 0; x < n; x++ {
		for y := 0; y < k; y++ {
			var vec [4]numeric.Number
			for i := range vectorfield.Deltas {
				f, err := readFloat(br)
				if err != nil {
					return 0, fmt.Errorf("checkpoint: reading velocity (%d,%d,%d): %w", x, y, i, err)
				}
				vec[i] = e.VelocityZero().SameFloat(f)
			}
			e.SetVelocityVector(x, y, vec)
		}
	}

	for x := 0; x < n; x++ {
		for y := 0; y < k; y++ {
			f, err := readFloat(br)
			if err != nil {
				return 0, fmt.Errorf("checkpoint: reading pressure (%d,%d): %w", x, y, err)
			}
			e.SetP(x, y, e.PressureZero().SameFloat(f))
		}
	}

	return t, nil
}

func readFloat(br *bufio.Reader) (float64, error) {
	var tok string
	if _, err := fmt.Fscan(br, &tok); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(tok, 64)
}
