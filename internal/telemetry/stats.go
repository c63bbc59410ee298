// Package telemetry collects per-tick simulation statistics and exports
// them as CSV, grounded on the same window/flush structure the original
// experiment harness uses for its own metrics.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TickStats holds aggregated counters for one flush window.
type TickStats struct {
	WindowEndTick int     `csv:"window_end"`
	TicksMoved    int     `csv:"ticks_moved"`
	ParticleCount int     `csv:"particle_count"`
	MeanPressure  float64 `csv:"pressure_mean"`
	P10Pressure   float64 `csv:"pressure_p10"`
	P50Pressure   float64 `csv:"pressure_p50"`
	P90Pressure   float64 `csv:"pressure_p90"`
	MaxVelocity   float64 `csv:"velocity_max"`
}

// Collector accumulates samples across a window and produces a TickStats
// record when the window closes.
type Collector struct {
	windowSize    int
	tick          int
	ticksMoved    int
	pressures     []float64
	maxVelocity   float64
	particleCount int
}

// NewCollector builds a Collector that closes a window every windowSize
// ticks.
func NewCollector(windowSize int) *Collector {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Collector{windowSize: windowSize}
}

// Observe records one tick's raw samples. moved reports whether the tick
// produced a render snapshot; pressures and maxVelocity are this tick's
// live readings. Returns a closed window's stats, or nil if the window
// hasn't closed yet.
func (c *Collector) Observe(tick int, moved bool, pressures []float64, maxVelocity float64, particleCount int) *TickStats {
	c.tick = tick
	if moved {
		c.ticksMoved++
	}
	c.pressures = append(c.pressures, pressures...)
	if maxVelocity > c.maxVelocity {
		c.maxVelocity = maxVelocity
	}
	c.particleCount = particleCount

	if (tick+1)%c.windowSize != 0 {
		return nil
	}
	stats := c.close()
	return &stats
}

func (c *Collector) close() TickStats {
	sorted := append([]float64(nil), c.pressures...)
	sort.Float64s(sorted)

	out := TickStats{
		WindowEndTick: c.tick,
		TicksMoved:    c.ticksMoved,
		ParticleCount: c.particleCount,
		MaxVelocity:   c.maxVelocity,
	}
	if len(sorted) > 0 {
		out.MeanPressure = stat.Mean(sorted, nil)
		out.P10Pressure = stat.Quantile(0.10, stat.Empirical, sorted, nil)
		out.P50Pressure = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		out.P90Pressure = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	}

	c.ticksMoved = 0
	c.pressures = c.pressures[:0]
	c.maxVelocity = 0
	return out
}
