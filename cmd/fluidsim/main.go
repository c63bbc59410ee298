// Command fluidsim runs the two-dimensional grid fluid simulator: it
// loads a field file, instantiates the tick engine for a chosen
// (P, V, VF) numeric triple, and runs ticks starting at the field's
// starting tick index until the tick cap (-max-ticks, else the config's
// engine.max_ticks) is reached, the GUI window is closed, or an interrupt
// arrives, printing one snapshot per tick on which a particle moved.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pthm-cable/fluidsim/internal/checkpoint"
	"github.com/pthm-cable/fluidsim/internal/config"
	"github.com/pthm-cable/fluidsim/internal/engine"
	"github.com/pthm-cable/fluidsim/internal/factory"
	"github.com/pthm-cable/fluidsim/internal/grid"
	"github.com/pthm-cable/fluidsim/internal/guirender"
	"github.com/pthm-cable/fluidsim/internal/render"
	"github.com/pthm-cable/fluidsim/internal/telemetry"
	"github.com/pthm-cable/fluidsim/internal/tracker"
)

var (
	pType          = flag.String("p-type", "DOUBLE", "pressure numeric type tag")
	vType          = flag.String("v-type", "DOUBLE", "velocity numeric type tag")
	vfType         = flag.String("v-flow-type", "DOUBLE", "velocity-flow numeric type tag")
	fieldPath      = flag.String("field", "", "initial field file (required unless -resume is given)")
	resumePath     = flag.String("resume", "", "resume from a checkpoint file written by -save-field, instead of -field")
	savePath       = flag.String("save-field", "", "checkpoint destination on SIGINT")
	threads        = flag.Int("threads-count", 1, "worker pool size")
	configPath     = flag.String("config", "", "YAML config file overriding embedded defaults")
	statsCSV       = flag.String("stats-csv", "", "write per-window telemetry CSV to this path")
	gui            = flag.Bool("gui", false, "show a live raylib preview window")
	maxTicks       = flag.Int("max-ticks", 0, "stop after N ticks (0 = use config default)")
	verbose        = flag.Bool("verbose", false, "log per-tick debug detail")
	trackParticles = flag.String("track-particles", "", "comma-separated particle characters to track by position via the ECS inspector")
)

func main() {
	flag.Parse()

	if *fieldPath == "" && *resumePath == "" {
		log.Fatalf("fluidsim: one of -field or -resume is required")
	}
	if *fieldPath != "" && *resumePath != "" {
		log.Fatalf("fluidsim: -field and -resume are mutually exclusive")
	}
	if *threads < 1 {
		log.Fatalf("fluidsim: -threads-count must be at least 1, got %d", *threads)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("fluidsim: %v", err)
	}
	cfg := config.Cfg()

	limit := *maxTicks
	if limit <= 0 {
		limit = cfg.Engine.MaxTicks
	}

	params := engine.Params{
		Gravity:           cfg.Engine.Gravity,
		SaturationEpsilon: cfg.Engine.SaturationEpsilon,
		Seed:              cfg.Engine.Seed,
	}
	e, err := factory.New(*pType, *vType, *vfType, params)
	if err != nil {
		log.Fatalf("fluidsim: %v", err)
	}

	startTick := loadField(e)

	if err := e.InitWorkers(*threads); err != nil {
		log.Fatalf("fluidsim: %v", err)
	}
	defer e.Close()

	stdout := render.NewWriter(os.Stdout)
	var gwin *guirender.Window
	if *gui {
		gwin = guirender.Open(e.Rows(), e.Cols(), cfg.Render.CellSize, cfg.Render.TargetFPS)
		defer gwin.Close()
	}

	// OnSnapshot only ever writes to stdout here, so it is safe to run on
	// the render pool's dedicated goroutine. The GUI window, by contrast,
	// is drawn synchronously in the tick loop below, on this goroutine —
	// raylib's GL context is bound to whichever OS thread called
	// guirender.Open (this one), and Go does not pin goroutines to OS
	// threads, so calling raylib draw calls from the render pool's
	// goroutine would be undefined behavior.
	e.OnSnapshot = func(tick int, field *grid.Grid[byte]) {
		if err := stdout.Snapshot(tick, field); err != nil && *verbose {
			log.Printf("fluidsim: snapshot write: %v", err)
		}
	}

	var tr *tracker.Tracker
	switch {
	case *trackParticles != "":
		tr = tracker.New(trackedChars(*trackParticles))
	case cfg.Tracker.Enabled:
		tr = tracker.New(discoverParticleChars(e.Field(), cfg.Tracker.MaxTracked))
	}
	if tr != nil {
		tr.Sync(e.Field())
	}

	var statsWriter *telemetry.Writer
	var collector *telemetry.Collector
	if *statsCSV != "" {
		sf, err := os.Create(*statsCSV)
		if err != nil {
			log.Fatalf("fluidsim: creating stats CSV: %v", err)
		}
		defer sf.Close()
		statsWriter = telemetry.NewWriter(sf)
		collector = telemetry.NewCollector(cfg.Telemetry.WindowSize)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	start := time.Now()
	tick := startTick
	for ; tick < startTick+limit; tick++ {
		select {
		case <-sigc:
			saveCheckpoint(e, tick)
			return
		default:
		}

		moved := e.Next(tick)

		if *verbose && moved {
			log.Printf("fluidsim: tick %d moved something", tick)
		}

		if moved && gwin != nil {
			gwin.Draw(tick, e.Field())
		}

		if tr != nil {
			tr.Sync(e.Field())
			if *verbose {
				logTrackedPositions(tick, tr)
			}
		}

		if collector != nil {
			maxV := 0.0
			particleCount := 0
			var pressures []float64
			for x := 0; x < e.Rows(); x++ {
				for y := 0; y < e.Cols(); y++ {
					switch e.Field().At(x, y) {
					case engine.Wall:
						continue
					case engine.Source, engine.Air:
					default:
						particleCount++
					}
					pressures = append(pressures, e.P(x, y).Float64())
					for _, v := range e.Velocity(x, y) {
						if v.Float64() > maxV {
							maxV = v.Float64()
						}
					}
				}
			}
			if stats := collector.Observe(tick, moved, pressures, maxV, particleCount); stats != nil {
				if err := statsWriter.Write(*stats); err != nil {
					log.Printf("fluidsim: writing stats: %v", err)
				}
			}
		}

		if gwin != nil && gwin.ShouldClose() {
			break
		}
	}

	log.Printf("fluidsim: ran %d ticks in %s", tick-startTick, time.Since(start).Round(time.Millisecond))
}

// loadField populates e's grid from either -field or -resume, whichever
// was given, and returns the tick index the run should start at.
func loadField(e *engine.Engine) int {
	if *resumePath != "" {
		f, err := os.Open(*resumePath)
		if err != nil {
			log.Fatalf("fluidsim: opening checkpoint file: %v", err)
		}
		defer f.Close()
		startTick, err := checkpoint.Load(f, e)
		if err != nil {
			log.Fatalf("fluidsim: %v", err)
		}
		log.Printf("fluidsim: resumed from %s at tick %d", *resumePath, startTick)
		return startTick
	}

	f, err := os.Open(*fieldPath)
	if err != nil {
		log.Fatalf("fluidsim: opening field file: %v", err)
	}
	defer f.Close()
	startTick, err := e.Load(f)
	if err != nil {
		log.Fatalf("fluidsim: %v", err)
	}
	return startTick
}

// trackedChars splits a comma-separated -track-particles value into the
// individual particle characters to watch.
func trackedChars(spec string) []byte {
	parts := strings.Split(spec, ",")
	chars := make([]byte, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		chars = append(chars, p[0])
	}
	return chars
}

// discoverParticleChars scans field for every non-wall, non-source,
// non-air character, for config-driven tracking (tracker.enabled) when
// no explicit -track-particles list was given. Stops after max distinct
// characters, per tracker.max_tracked.
func discoverParticleChars(field *grid.Grid[byte], max int) []byte {
	seen := make(map[byte]bool)
	var chars []byte
	for x := 0; x < field.Rows() && len(chars) < max; x++ {
		for _, c := range field.Row(x) {
			if c == engine.Wall || c == engine.Source || c == engine.Air || seen[c] {
				continue
			}
			seen[c] = true
			chars = append(chars, c)
			if len(chars) >= max {
				break
			}
		}
	}
	return chars
}

func logTrackedPositions(tick int, tr *tracker.Tracker) {
	for _, c := range tr.Chars() {
		if pos, ok := tr.Position(c); ok {
			log.Printf("fluidsim: tick %d: particle %q at (%d,%d)", tick, c, pos.X, pos.Y)
		}
	}
}

func saveCheckpoint(e *engine.Engine, tick int) {
	if *savePath == "" {
		log.Printf("fluidsim: interrupted at tick %d, no -save-field given", tick)
		return
	}
	f, err := os.Create(*savePath)
	if err != nil {
		log.Printf("fluidsim: creating checkpoint file: %v", err)
		return
	}
	defer f.Close()
	if err := checkpoint.Save(f, e, tick); err != nil {
		log.Printf("fluidsim: saving checkpoint: %v", err)
		return
	}
	log.Printf("fluidsim: saved checkpoint to %s at tick %d", *savePath, tick)
}
