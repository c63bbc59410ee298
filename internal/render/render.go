// Package render writes tick snapshots to standard output, per
// spec.md §6's output format: a "Tick <i>:" header followed by the
// grid, one row per line, flushed after each snapshot.
package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pthm-cable/fluidsim/internal/grid"
)

// Writer renders snapshots to an underlying io.Writer. A failure to
// write is returned to the caller; the CLI logs it only under -verbose
// and otherwise ignores it — per spec.md §7, the renderer failing is
// non-fatal.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w (typically os.Stdout).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Snapshot writes one tick's header and grid, then flushes.
func (r *Writer) Snapshot(tick int, field *grid.Grid[byte]) error {
	if _, err := fmt.Fprintf(r.w, "Tick %d:\n", tick); err != nil {
		return err
	}
	for x := 0; x < field.Rows(); x++ {
		if _, err := r.w.Write(field.Row(x)); err != nil {
			return err
		}
		if err := r.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return r.w.Flush()
}
