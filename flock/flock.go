package flock

import (
	"github.com/mlange-42/ark/ecs"
)

// Options configures a Flock. The zero Options means DefaultOptions; any
// other value is used as given, so a zero Schedule starts its phase at once.
type Options struct {
	Radii  Radii
	Travel Schedule
	Growth Schedule
	// Grow enables the sprite dilation hook. When false sprites are drawn at
	// their nominal size.
	Grow bool
}

// Flock owns the agents and ticks them in insertion order.
//
// Agents live as components in an ark world; the Flock keeps the entity
// order so iteration (and therefore draw order) is stable.
type Flock struct {
	world *ecs.World
	boids *ecs.Map1[Boid]
	order []ecs.Entity

	clock *Clock
	opts  Options

	// Per-frame scratch, reused across ticks
	grid       *SpatialGrid
	gridVP     Viewport
	gridMargin float64
	snapshot   []Neighbor
	candidates []int
	view       []Neighbor

	wraps int // agents that wrapped during the last tick
}

// DefaultOptions returns the letter flock's radii and schedules with the
// growth hook off.
func DefaultOptions() Options {
	return Options{
		Radii:  DefaultRadii,
		Travel: TravelSchedule,
		Growth: GrowthSchedule,
	}
}

// New creates an empty flock backed by world and timed by clock.
func New(world *ecs.World, clock *Clock, opts Options) *Flock {
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	return &Flock{
		world: world,
		boids: ecs.NewMap1[Boid](world),
		clock: clock,
		opts:  opts,
	}
}

// Add appends an agent. Agents are added once, before the first Tick.
func (f *Flock) Add(b Boid) ecs.Entity {
	e := f.boids.NewEntity(&b)
	f.order = append(f.order, e)
	return e
}

// Len returns the number of agents.
func (f *Flock) Len() int {
	return len(f.order)
}

// Get returns the agent stored for e, or nil if e is no longer alive.
func (f *Flock) Get(e ecs.Entity) *Boid {
	if !f.world.Alive(e) {
		return nil
	}
	return f.boids.Get(e)
}

// Each calls fn for every agent in insertion order.
func (f *Flock) Each(fn func(e ecs.Entity, b *Boid)) {
	for _, e := range f.order {
		fn(e, f.boids.Get(e))
	}
}

// Clock returns the flock's simulation clock.
func (f *Flock) Clock() *Clock {
	return f.clock
}

// TravelWeight returns the current flocking-to-travel blend weight.
func (f *Flock) TravelWeight() float64 {
	return f.opts.Travel.Weight(f.clock.Elapsed())
}

// Frame builds the shared per-frame inputs for the current instant.
func (f *Flock) Frame(vp Viewport, drawer Drawer) Frame {
	elapsed := f.clock.Elapsed()
	dilation := 1.0
	if f.opts.Grow {
		dilation = Dilation(f.opts.Growth.Weight(elapsed))
	}
	return Frame{
		TravelWeight: f.opts.Travel.Weight(elapsed),
		Dilation:     dilation,
		Viewport:     vp,
		Radii:        f.opts.Radii,
		Drawer:       drawer,
	}
}

// Tick advances every agent by one frame. All agents see the same snapshot
// of positions and velocities taken before the first agent moves.
func (f *Flock) Tick(vp Viewport, drawer Drawer) {
	f.TickFrame(f.Frame(vp, drawer))
}

// TickFrame is Tick with explicit frame inputs.
func (f *Flock) TickFrame(frame Frame) {
	f.Index(frame)
	f.Step(frame)
}

// Index snapshots every agent and rebuilds the neighbour grid over the
// snapshot. Step reads only what the last Index captured.
func (f *Flock) Index(frame Frame) {
	f.takeSnapshot()
	f.indexSnapshot(frame.Viewport, frame.Radii.Max())
}

// Step moves every agent against the indexed snapshot.
func (f *Flock) Step(frame Frame) {
	radius := frame.Radii.Max()
	f.wraps = 0
	for i, e := range f.order {
		f.candidates = f.grid.QueryInto(f.candidates[:0], f.snapshot[i].Position, radius)
		f.view = f.view[:0]
		for _, j := range f.candidates {
			f.view = append(f.view, f.snapshot[j])
		}
		if f.boids.Get(e).Tick(f.view, frame) {
			f.wraps++
		}
	}
}

// Wraps returns how many agents wrapped during the last tick.
func (f *Flock) Wraps() int {
	return f.wraps
}

// takeSnapshot copies the kinematic state of every agent.
func (f *Flock) takeSnapshot() {
	f.snapshot = f.snapshot[:0]
	margin := 0.0
	for _, e := range f.order {
		b := f.boids.Get(e)
		f.snapshot = append(f.snapshot, b.Neighbor())
		margin = max(margin, b.Margin)
	}
	f.gridMargin = margin
}

// indexSnapshot rebuilds the spatial grid over the snapshot.
func (f *Flock) indexSnapshot(vp Viewport, cellSize float64) {
	if f.grid == nil {
		f.grid = NewSpatialGrid(vp, f.gridMargin, cellSize)
		f.gridVP = vp
	} else if f.gridVP != vp {
		f.grid.Resize(vp, f.gridMargin)
		f.gridVP = vp
	} else {
		f.grid.Clear()
	}
	for i := range f.snapshot {
		f.grid.Insert(i, f.snapshot[i].Position)
	}
}
