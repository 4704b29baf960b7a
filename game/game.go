// Package game hosts the letter flock: it owns the window-facing loop,
// spawns the agents from the layout and wires telemetry around each tick.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/letterflock/config"
	"github.com/pthm-cable/letterflock/flock"
	"github.com/pthm-cable/letterflock/layout"
	"github.com/pthm-cable/letterflock/renderer"
	"github.com/pthm-cable/letterflock/telemetry"
	"github.com/pthm-cable/letterflock/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	AssetsDir      string         // Overrides assets.dir when non-empty
	Config         *config.Config // nil = config.Cfg()
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	flock   *flock.Flock
	rng     *rand.Rand

	// Headless runs step a frame clock instead of reading the wall clock
	frameTime *flock.FrameTime

	stencil layout.Stencil
	slots   []layout.Slot

	// Rendering (nil when headless)
	sprites    *renderer.SpriteSheet
	queue      *renderer.DrawQueue
	hud        *ui.HUD
	statsPanel *ui.StatsPanel
	controls   *ui.ControlsPanel
	overlays   *ui.OverlayRegistry
	showHUD    bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	lastStats        telemetry.WindowStats

	// State
	tick           int32
	headless       bool
	stepsPerUpdate int

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game. In windowed mode the raylib window must
// already be open; sprite loading failures are returned as errors.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		cfg:              cfg,
		world:            ecs.NewWorld(),
		rng:              rand.New(rand.NewSource(opts.Seed)),
		stencil:          layout.FromConfig(cfg.Layout),
		headless:         opts.Headless,
		stepsPerUpdate:   steps,
		showHUD:          true,
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT.Seconds(), cfg.Telemetry.SettleRadius),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
	}

	// Viewport
	if opts.Headless {
		g.screenWidth = float32(cfg.Derived.ScreenW)
		g.screenHeight = float32(cfg.Derived.ScreenH)
	} else {
		g.screenWidth = float32(rl.GetScreenWidth())
		g.screenHeight = float32(rl.GetScreenHeight())
	}

	slots, err := g.stencil.Slots(float64(g.screenWidth), float64(g.screenHeight))
	if err != nil {
		return nil, fmt.Errorf("laying out letters: %w", err)
	}
	g.slots = slots

	// Rendering
	if !opts.Headless {
		dir := cfg.Assets.Dir
		if opts.AssetsDir != "" {
			dir = opts.AssetsDir
		}
		sprites, err := renderer.LoadSpriteSheet(g.stencil.Letters(), dir, cfg.Assets.Ext, cfg.Assets.FontSize)
		if err != nil {
			return nil, err
		}
		g.sprites = sprites
		g.queue = renderer.NewDrawQueue()
		g.hud = ui.NewHUD()
		g.statsPanel = ui.NewStatsPanel(int32(g.screenWidth)-230, 10, 220, float32(cfg.Boid.MaxSpeed))
		g.controls = ui.NewControlsPanel(10, 130, 300)
		g.overlays = ui.NewOverlayRegistry()
	}

	// Output
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Unload()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	// Clock starts once everything is loaded
	var clock *flock.Clock
	if opts.Headless {
		g.frameTime = flock.NewFrameTime(time.Unix(0, 0), cfg.Derived.DT)
		clock = flock.NewClock(g.frameTime.Now)
	} else {
		clock = flock.NewClock(nil)
	}
	g.flock = flock.New(g.world, clock, flockOptions(cfg))

	g.spawnFlock()

	slog.Info("game created",
		"agents", g.flock.Len(),
		"headless", opts.Headless,
		"seed", opts.Seed,
		"viewport_w", g.screenWidth,
		"viewport_h", g.screenHeight,
	)

	return g, nil
}

// flockOptions maps the config onto flock options.
func flockOptions(cfg *config.Config) flock.Options {
	return flock.Options{
		Radii: flock.Radii{
			Separation: cfg.Steering.SeparationRadius,
			Alignment:  cfg.Steering.AlignmentRadius,
			Cohesion:   cfg.Steering.CohesionRadius,
		},
		Travel: flock.Schedule{Delay: cfg.Derived.TravelDelay, Ramp: cfg.Derived.TravelRamp},
		Growth: flock.Schedule{Delay: cfg.Derived.GrowthDelay, Ramp: cfg.Derived.GrowthRamp},
		Grow:   cfg.Schedule.GrowthEnabled,
	}
}

// viewport returns the current drawing surface size.
func (g *Game) viewport() flock.Viewport {
	return flock.Viewport{Width: float64(g.screenWidth), Height: float64(g.screenHeight)}
}

// Update handles input and runs the simulation steps for one rendered frame.
// Only the last step queues draw requests.
func (g *Game) Update() {
	if g.headless {
		g.UpdateHeadless()
		return
	}
	g.handleInput()

	g.queue.Reset()
	for i := 0; i < g.stepsPerUpdate; i++ {
		var drawer flock.Drawer
		if i == g.stepsPerUpdate-1 {
			drawer = g.queue
		}
		g.step(drawer)
	}
}

// UpdateHeadless runs the simulation steps without input or drawing.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(nil)
	}
}

// step advances the simulation by one frame.
func (g *Game) step(drawer flock.Drawer) {
	g.perfCollector.SetAgents(g.flock.Len())
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSchedule)
	frame := g.flock.Frame(g.viewport(), drawer)

	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.flock.Index(frame)

	g.perfCollector.StartPhase(telemetry.PhaseAgents)
	g.flock.Step(frame)
	g.collector.RecordWraps(g.flock.Wraps())

	g.tick++
	if g.frameTime != nil {
		g.frameTime.Advance()
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry(frame)

	g.perfCollector.EndTick()
}

// Unload frees resources. It is safe to call more than once.
func (g *Game) Unload() {
	if g.sprites != nil {
		g.sprites.Unload()
		g.sprites = nil
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}

// Tick returns the number of simulated frames.
func (g *Game) Tick() int32 {
	return g.tick
}

// Flock returns the simulated flock.
func (g *Game) Flock() *flock.Flock {
	return g.flock
}

// Slots returns the letter destinations the flock was spawned with.
func (g *Game) Slots() []layout.Slot {
	return g.slots
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}
