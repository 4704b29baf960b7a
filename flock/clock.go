package flock

import "time"

// Schedule describes a linear ramp from 0 to 1 that starts after Delay and
// reaches 1 after a further Ramp.
type Schedule struct {
	Delay time.Duration
	Ramp  time.Duration
}

// Default schedules.
var (
	// TravelSchedule hands agents over from flocking to destination seeking:
	// flocking only for 5s, then a 9s crossfade.
	TravelSchedule = Schedule{Delay: 5 * time.Second, Ramp: 9 * time.Second}

	// GrowthSchedule drives the sprite dilation hook.
	GrowthSchedule = Schedule{Delay: 7 * time.Second, Ramp: 7 * time.Second}
)

// Weight returns clamp((elapsed - Delay) / Ramp, 0, 1).
// A zero Ramp is a step at Delay.
func (s Schedule) Weight(elapsed time.Duration) float64 {
	if s.Ramp <= 0 {
		if elapsed > s.Delay {
			return 1
		}
		return 0
	}
	return clamp01(float64(elapsed-s.Delay) / float64(s.Ramp))
}

// Dilation maps a growth weight to a sprite scale in [0.5, 1].
func Dilation(w float64) float64 {
	return 0.5 + 0.5*clamp01(w)
}

// Clock measures elapsed time since the simulation started.
type Clock struct {
	now   func() time.Time
	start time.Time
}

// NewClock creates a clock that starts at now().
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now, start: now()}
}

// Start returns the instant the clock was started.
func (c *Clock) Start() time.Time {
	return c.start
}

// Elapsed returns the time since start.
func (c *Clock) Elapsed() time.Duration {
	return c.now().Sub(c.start)
}

// Restart resets the start instant to now.
func (c *Clock) Restart() {
	c.start = c.now()
}

// FrameTime is a time source that only advances when told to.
// Headless runs use it so the schedule follows simulated frames rather than
// how fast the CPU steps them.
type FrameTime struct {
	t  time.Time
	dt time.Duration
}

// NewFrameTime creates a frame time source starting at origin that advances
// by dt on every Advance.
func NewFrameTime(origin time.Time, dt time.Duration) *FrameTime {
	return &FrameTime{t: origin, dt: dt}
}

// Now returns the current frame instant.
func (f *FrameTime) Now() time.Time {
	return f.t
}

// Advance moves time forward by one frame.
func (f *FrameTime) Advance() {
	f.t = f.t.Add(f.dt)
}
