// Package main searches steering parameters with CMA-ES for a flock that forms
// the letters quickly without losing its flocking phase.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/letterflock/config"
)

type options struct {
	configPath string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 3600, "Tick cap per run")
	flag.IntVar(&opts.seeds, "seeds", 3, "Seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(opts); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.outputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	base := FlockParamsFromConfig(baseCfg)
	params := NewParamVector(base)
	evaluator := NewFitnessEvaluator(int32(opts.maxTicks), evalSeeds(opts.seeds), baseCfg)

	evalLog, err := newEvalLog(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return err
	}
	defer evalLog.Close()

	tr := &tracker{maxEvals: opts.maxEvals, start: time.Now(), bestFitness: 1e9, best: base}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			p := params.Params(x)
			fitness := evaluator.Evaluate(p)
			rec := tr.record(p, evaluator.Last())
			if err := evalLog.Write(rec); err != nil {
				slog.Error("failed to write eval log", "error", err)
			}
			return fitness
		},
	}

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(params.Dim())/2.0)
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	bounds := make([]any, 0, 2*params.Dim())
	for _, spec := range params.Specs {
		bounds = append(bounds, spec.Name, fmt.Sprintf("%.3g..%.3g", spec.Min, spec.Max))
	}
	slog.Info("starting optimization",
		"params", params.Dim(),
		"population", popSize,
		"max_evals", opts.maxEvals,
		"seeds", opts.seeds,
		"max_ticks", opts.maxTicks,
		slog.Group("bounds", bounds...),
	)

	if _, err := optimize.Minimize(problem, params.Normalize(base), settings, method); err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	slog.Info("optimization complete",
		"evals", tr.evals,
		"elapsed", time.Since(tr.start).Round(time.Second).String(),
		"best_fitness", tr.bestFitness,
		"best", tr.best,
	)

	bestCfg := baseCfg.Clone()
	tr.best.Apply(bestCfg)
	out := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", out)
	return nil
}

// evalSeeds returns n fixed seeds so every evaluation sees the same runs.
func evalSeeds(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	return seeds
}

// evalRecord is one optimize_log.csv row.
type evalRecord struct {
	Eval int `csv:"eval"`
	EvalResult
	FlockParams
}

// tracker keeps the running best and logs progress.
type tracker struct {
	maxEvals    int
	start       time.Time
	evals       int
	bestFitness float64
	best        FlockParams
}

func (t *tracker) record(p FlockParams, res EvalResult) evalRecord {
	t.evals++
	if res.Fitness < t.bestFitness {
		t.bestFitness = res.Fitness
		t.best = p
	}

	elapsed := time.Since(t.start)
	eta := time.Duration(t.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))
	slog.Info("eval",
		"n", t.evals,
		"of", t.maxEvals,
		"fitness", res.Fitness,
		"formation_sec", res.FormationSec,
		"settled", fmt.Sprintf("%.1f/%d", res.Settled, res.Agents),
		"quality", res.Quality,
		"best", t.bestFitness,
		"elapsed", elapsed.Round(time.Second).String(),
		"eta", eta.Round(time.Second).String(),
	)

	return evalRecord{Eval: t.evals, EvalResult: res, FlockParams: p}
}

// evalLog appends evaluation records to a CSV file.
type evalLog struct {
	file          *os.File
	headerWritten bool
}

func newEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	return &evalLog{file: f}, nil
}

// Write appends rec, with the header before the first row.
func (l *evalLog) Write(rec evalRecord) error {
	records := []evalRecord{rec}
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.file); err != nil {
			return fmt.Errorf("writing eval log: %w", err)
		}
		l.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, l.file); err != nil {
		return fmt.Errorf("writing eval log: %w", err)
	}
	return nil
}

// Close closes the file.
func (l *evalLog) Close() error {
	return l.file.Close()
}
