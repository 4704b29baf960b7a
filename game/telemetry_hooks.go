package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/letterflock/flock"
	"github.com/pthm-cable/letterflock/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry(frame flock.Frame) {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	// Flush the stats window
	stats := g.collector.Flush(g.tick, g.sampleFlock(frame))
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Console output
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// sampleFlock collects the per-agent values the stats window summarizes.
func (g *Game) sampleFlock(frame flock.Frame) telemetry.FlockSample {
	n := g.flock.Len()
	sample := telemetry.FlockSample{
		TravelWeight: frame.TravelWeight,
		Dilation:     frame.Dilation,
		Speeds:       make([]float64, 0, n),
		Distances:    make([]float64, 0, n),
	}

	g.flock.Each(func(_ ecs.Entity, b *flock.Boid) {
		sample.Speeds = append(sample.Speeds, b.Speed())
		sample.Distances = append(sample.Distances, b.DistanceToDestination())
	})

	return sample
}
