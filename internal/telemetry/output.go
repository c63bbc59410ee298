package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Writer streams TickStats records to a CSV destination, writing the
// header on the first record only.
type Writer struct {
	w             io.Writer
	headerWritten bool
}

// NewWriter wraps w. w is typically an *os.File opened with os.Create.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends one stats record to the CSV stream.
func (tw *Writer) Write(s TickStats) error {
	records := []TickStats{s}
	if !tw.headerWritten {
		if err := gocsv.Marshal(records, tw.w); err != nil {
			return fmt.Errorf("telemetry: writing stats header+row: %w", err)
		}
		tw.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, tw.w); err != nil {
		return fmt.Errorf("telemetry: writing stats row: %w", err)
	}
	return nil
}
