package telemetry

// FlockSample is the flock state sampled at the end of a window.
type FlockSample struct {
	TravelWeight float64
	Dilation     float64
	Speeds       []float64
	Distances    []float64 // Distance of each agent to its destination
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64
	settleRadius        float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	wraps int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
// settleRadius: agents closer than this to their destination count as settled
func NewCollector(windowDurationSec, dt, settleRadius float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		settleRadius:        settleRadius,
	}
}

// RecordWraps records agents that wrapped during a tick.
func (c *Collector) RecordWraps(n int) {
	c.wraps += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample FlockSample) WindowStats {
	speedMean, speedStd, speedMax := ComputeSpeedStats(sample.Speeds)
	distMean, distP50, distP90, distMax := ComputeDistanceStats(sample.Distances)

	settled := 0
	for _, d := range sample.Distances {
		if d < c.settleRadius {
			settled++
		}
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		TravelWeight: sample.TravelWeight,
		Dilation:     sample.Dilation,

		Agents:  len(sample.Distances),
		Settled: settled,

		Wraps: c.wraps,

		SpeedMean: speedMean,
		SpeedStd:  speedStd,
		SpeedMax:  speedMax,

		DistMean: distMean,
		DistP50:  distP50,
		DistP90:  distP90,
		DistMax:  distMax,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.wraps = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
