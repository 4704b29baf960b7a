package telemetry

import (
	"math"
	"testing"
	"time"
)

// stepClock is a time source the test moves by hand.
type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time { return c.t }

func (c *stepClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newStepCollector(window int) (*PerfCollector, *stepClock) {
	clk := &stepClock{t: time.Unix(0, 0)}
	return NewPerfCollectorWithClock(window, clk.now), clk
}

// runStep times one step whose phases take the given durations.
func runStep(pc *PerfCollector, clk *stepClock, d PhaseTimes) {
	pc.StartTick()
	for ph := Phase(0); ph < numPhases; ph++ {
		pc.StartPhase(ph)
		clk.advance(d[ph])
	}
	pc.EndTick()
}

func TestPerfCollector_PhaseDurations(t *testing.T) {
	pc, clk := newStepCollector(10)
	pc.SetAgents(100)

	d := PhaseTimes{
		PhaseSchedule:  10 * time.Microsecond,
		PhaseSnapshot:  90 * time.Microsecond,
		PhaseAgents:    800 * time.Microsecond,
		PhaseTelemetry: 100 * time.Microsecond,
	}
	for i := 0; i < 5; i++ {
		runStep(pc, clk, d)
	}

	stats := pc.Stats()

	if stats.AvgTick != time.Millisecond {
		t.Errorf("expected avg tick 1ms, got %v", stats.AvgTick)
	}
	if stats.PhaseAvg != d {
		t.Errorf("expected phase averages %v, got %v", d, stats.PhaseAvg)
	}

	tests := []struct {
		phase Phase
		want  float64
	}{
		{PhaseSchedule, 1},
		{PhaseSnapshot, 9},
		{PhaseAgents, 80},
		{PhaseTelemetry, 10},
	}
	for _, tt := range tests {
		if got := stats.PhasePct[tt.phase]; math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: expected %v%%, got %v%%", tt.phase, tt.want, got)
		}
	}

	if math.Abs(stats.AgentUS-8) > 1e-9 {
		t.Errorf("expected 8us per agent, got %v", stats.AgentUS)
	}
	if math.Abs(stats.TicksPerSecond-1000) > 1e-9 {
		t.Errorf("expected 1000 ticks/s, got %v", stats.TicksPerSecond)
	}
}

func TestPerfCollector_SlowPhaseDominates(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSnapshot)
		time.Sleep(time.Millisecond)
		pc.StartPhase(PhaseAgents)
		time.Sleep(10 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseAgents] <= stats.PhasePct[PhaseSnapshot] {
		t.Errorf("expected agents (%v%%) > snapshot (%v%%)", stats.PhasePct[PhaseAgents], stats.PhasePct[PhaseSnapshot])
	}
	if stats.AvgTick < 11*time.Millisecond {
		t.Errorf("expected avg tick >= 11ms, got %v", stats.AvgTick)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clk := newStepCollector(5)

	for i := 1; i <= 10; i++ {
		runStep(pc, clk, PhaseTimes{PhaseAgents: time.Duration(i) * time.Millisecond})
	}

	// Only steps 6..10 remain.
	stats := pc.Stats()
	if stats.MinTick != 6*time.Millisecond {
		t.Errorf("expected min tick 6ms, got %v", stats.MinTick)
	}
	if stats.MaxTick != 10*time.Millisecond {
		t.Errorf("expected max tick 10ms, got %v", stats.MaxTick)
	}
	if stats.AvgTick != 8*time.Millisecond {
		t.Errorf("expected avg tick 8ms, got %v", stats.AvgTick)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTick != 0 || stats.TicksPerSecond != 0 || stats.AgentUS != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
}

func TestPerfCollector_NoAgents(t *testing.T) {
	pc, clk := newStepCollector(4)
	runStep(pc, clk, PhaseTimes{PhaseAgents: time.Millisecond})

	if got := pc.Stats().AgentUS; got != 0 {
		t.Errorf("expected no per-agent cost without agents, got %v", got)
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc, clk := newStepCollector(10)

	pc.RecordFrame()
	clk.advance(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 16*time.Millisecond {
		t.Errorf("expected frame duration 16ms, got %v", stats.FrameDuration)
	}
	if math.Abs(stats.FPS-62.5) > 1e-9 {
		t.Errorf("expected 62.5 FPS, got %v", stats.FPS)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseSchedule, "schedule"},
		{PhaseSnapshot, "snapshot"},
		{PhaseAgents, "agents"},
		{PhaseTelemetry, "telemetry"},
		{numPhases, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	var stats PerfStats
	stats.AvgTick = 250 * time.Microsecond
	stats.PhasePct[PhaseSnapshot] = 15
	stats.PhasePct[PhaseAgents] = 80
	stats.PhasePct[PhaseTelemetry] = 5
	stats.AgentUS = 1.5

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 {
		t.Errorf("expected window end 120, got %d", row.WindowEnd)
	}
	if row.AvgTickUS != 250 {
		t.Errorf("expected avg tick 250us, got %d", row.AvgTickUS)
	}
	if row.SnapshotPct != 15 || row.AgentsPct != 80 || row.TelemetryPct != 5 || row.SchedulePct != 0 {
		t.Errorf("unexpected phase percentages %+v", row)
	}
	if row.AgentUS != 1.5 {
		t.Errorf("expected 1.5us per agent, got %v", row.AgentUS)
	}
}
