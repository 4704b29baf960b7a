package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/letterflock/config"
	"github.com/pthm-cable/letterflock/flock"
	"github.com/pthm-cable/letterflock/game"
	"github.com/pthm-cable/letterflock/telemetry"
)

// EvalResult summarizes one evaluation across all seeds.
type EvalResult struct {
	Fitness      float64 `csv:"fitness"`
	Quality      float64 `csv:"quality"`
	FormationSec float64 `csv:"formation_sec"` // Mean over seeds; the tick cap when a run never forms
	Settled      float64 `csv:"settled"`       // Mean settled agents in each run's last window
	Agents       int     `csv:"agents"`
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu   sync.Mutex
	last EvalResult
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 0.5,
	}
}

// Last returns the result of the most recent Evaluate call.
func (fe *FitnessEvaluator) Last() EvalResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// runResult holds the results from a single simulation run.
type runResult struct {
	formedTick  int32                   // first tick with every agent settled (maxTicks if never)
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	formSec float64
	settled int
	agents  int
}

// Evaluate computes fitness for p (lower = better).
// Fitness is the formation time in sim-seconds, discounted by up to 20%
// for a lively flock that holds its formation.
func (fe *FitnessEvaluator) Evaluate(p FlockParams) float64 {
	cfg := fe.baseConfig.Clone()
	p.Apply(cfg)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result, err := fe.runSimulation(cfg, s)
			if err != nil {
				results[idx] = seedResult{fitness: math.Inf(1)}
				slog.Error("seed failed", "seed", s, "error", err)
				return
			}
			quality := fe.computeQuality(result.windowStats)
			formSec := float64(result.formedTick) * cfg.Derived.DT.Seconds()
			r := seedResult{
				fitness: formSec * (1.0 - 0.2*quality),
				quality: quality,
				formSec: formSec,
			}
			if n := len(result.windowStats); n > 0 {
				r.settled = result.windowStats[n-1].Settled
				r.agents = result.windowStats[n-1].Agents
			}
			results[idx] = r
		}(i, seed)
	}
	wg.Wait()

	res := summarize(results)
	fe.mu.Lock()
	fe.last = res
	fe.mu.Unlock()

	return res.Fitness
}

// summarize averages per-seed results.
func summarize(results []seedResult) EvalResult {
	var res EvalResult
	if len(results) == 0 {
		return res
	}
	for _, r := range results {
		res.Fitness += r.fitness
		res.Quality += r.quality
		res.FormationSec += r.formSec
		res.Settled += float64(r.settled)
		res.Agents = max(res.Agents, r.agents)
	}
	n := float64(len(results))
	res.Fitness /= n
	res.Quality /= n
	res.FormationSec /= n
	res.Settled /= n
	return res
}

// runSimulation executes a single headless simulation run. It stops once the
// formation has been held for formationHoldSec, or at maxTicks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) (*runResult, error) {
	result := &runResult{formedTick: fe.maxTicks}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	holdTicks := int32(formationHoldSec / cfg.Derived.DT.Seconds())
	formed := false

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()

		if !formed && g.Flock().Len() > 0 && allSettled(g, cfg.Telemetry.SettleRadius) {
			formed = true
			result.formedTick = g.Tick()
		}
		if formed && g.Tick()-result.formedTick >= holdTicks {
			break
		}
	}

	return result, nil
}

// allSettled reports whether every agent is within radius of its destination.
func allSettled(g *game.Game, radius float64) bool {
	settled := true
	g.Flock().Each(func(_ ecs.Entity, b *flock.Boid) {
		if b.DistanceToDestination() >= radius {
			settled = false
		}
	})
	return settled
}

// formationHoldSec is how long a formed run keeps going so quality can see
// whether the formation holds.
const formationHoldSec = 3.0

// Quality component weights.
const (
	qualityWeightLiveliness = 0.5
	qualityWeightHold       = 0.5
)

// computeQuality computes run quality in [0, 1] from window stats:
// liveliness is the flocking-phase mean speed relative to the speed cap and
// its steadiness; hold is the share of post-travel windows with every
// agent settled.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	var flockSpeeds []float64
	var maxSpeed float64
	var forming, held int

	for _, w := range windows {
		switch {
		case w.TravelWeight == 0:
			flockSpeeds = append(flockSpeeds, w.SpeedMean)
			maxSpeed = math.Max(maxSpeed, w.SpeedMax)
		case w.TravelWeight >= 1:
			forming++
			if w.Agents > 0 && w.Settled == w.Agents {
				held++
			}
		}
	}

	liveliness := 0.0
	if len(flockSpeeds) > 0 && maxSpeed > 0 {
		mean, std := stat.MeanStdDev(flockSpeeds, nil)
		if len(flockSpeeds) < 2 {
			std = 0
		}
		liveliness = clamp01(mean/maxSpeed) * math.Exp(-cv(mean, std))
	}

	hold := 0.0
	if forming > 0 {
		hold = float64(held) / float64(forming)
	}

	return clamp01(qualityWeightLiveliness*liveliness + qualityWeightHold*hold)
}

// cv computes the coefficient of variation (std/mean).
func cv(mean, std float64) float64 {
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
