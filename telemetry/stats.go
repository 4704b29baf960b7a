// Package telemetry tracks how the flock converges: windowed statistics,
// formation milestones and per-phase timing.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Schedule state at window end
	TravelWeight float64 `csv:"travel_weight"`
	Dilation     float64 `csv:"dilation"`

	// Population
	Agents  int `csv:"agents"`
	Settled int `csv:"settled"` // Agents within the settle radius of their destination

	// Events during window
	Wraps int `csv:"wraps"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedMax  float64 `csv:"speed_max"`

	// Distance-to-destination distribution (sampled at window end)
	DistMean float64 `csv:"dist_mean"`
	DistP50  float64 `csv:"dist_p50"`
	DistP90  float64 `csv:"dist_p90"`
	DistMax  float64 `csv:"dist_max"`
}

// SettledFrac returns the fraction of agents that have settled.
func (s WindowStats) SettledFrac() float64 {
	if s.Agents == 0 {
		return 0
	}
	return float64(s.Settled) / float64(s.Agents)
}

// ComputeSpeedStats calculates mean, standard deviation and maximum.
func ComputeSpeedStats(values []float64) (mean, std, maxV float64) {
	switch len(values) {
	case 0:
		return 0, 0, 0
	case 1:
		return values[0], 0, values[0]
	}
	mean, std = stat.MeanStdDev(values, nil)
	return mean, std, floats.Max(values)
}

// ComputeDistanceStats calculates mean, median, 90th percentile and maximum.
// Percentiles are empirical: the smallest sample with at least p of the
// weight at or below it.
func ComputeDistanceStats(values []float64) (mean, p50, p90, maxV float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, p50, p90, sorted[n-1]
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("travel_weight", s.TravelWeight),
		slog.Float64("dilation", s.Dilation),
		slog.Int("agents", s.Agents),
		slog.Int("settled", s.Settled),
		slog.Int("wraps", s.Wraps),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("dist_mean", s.DistMean),
		slog.Float64("dist_p50", s.DistP50),
		slog.Float64("dist_p90", s.DistP90),
		slog.Float64("dist_max", s.DistMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"travel_weight", s.TravelWeight,
		"agents", s.Agents,
		"settled", s.Settled,
		"wraps", s.Wraps,
		"speed_mean", s.SpeedMean,
		"speed_max", s.SpeedMax,
		"dist_mean", s.DistMean,
		"dist_p90", s.DistP90,
		"dist_max", s.DistMax,
	)
}
