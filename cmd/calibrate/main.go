// Package main tunes the headless player with CMA-ES so that its captures match
// a target capture fraction and size preference.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/capture/config"
)

// EvalRecord is one row of calibrate_log.csv.
type EvalRecord struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	CaptureRate     float64 `csv:"capture_rate"`
	SizeBias        float64 `csv:"size_bias"`
	CaptureFraction float64 `csv:"capture_fraction"`
	SizeGap         float64 `csv:"size_gap"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	rounds := flag.Int("rounds", 20, "Rounds per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	targetFraction := flag.Float64("target-capture", 0.5, "Target fraction of each batch captured")
	targetGap := flag.Float64("target-size-gap", 0.1, "Target captured-minus-survivor mean size")
	gapWeight := flag.Float64("gap-weight", 1.0, "Weight of the size-gap term")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *outputDir == "" {
		slog.Error("--output is required")
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *rounds, evalSeeds, baseCfg, Targets{
		CaptureFraction: *targetFraction,
		SizeGap:         *targetGap,
		GapWeight:       *gapWeight,
	})

	logFile, err := os.Create(filepath.Join(*outputDir, "calibrate_log.csv"))
	if err != nil {
		slog.Error("failed to create log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	evalCount := 0
	headerWritten := false
	bestFitness := math.Inf(1)
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// CMA-ES works in the unit cube
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			m := evaluator.LastMetrics()
			rec := []EvalRecord{{
				Eval:            evalCount,
				Fitness:         fitness,
				CaptureRate:     raw[0],
				SizeBias:        raw[1],
				CaptureFraction: m.CaptureFraction,
				SizeGap:         m.SizeGap,
			}}
			var werr error
			if headerWritten {
				werr = gocsv.MarshalWithoutHeaders(rec, logFile)
			} else {
				werr = gocsv.Marshal(rec, logFile)
				headerWritten = true
			}
			if werr != nil {
				slog.Error("failed to write eval log", "error", werr)
			}

			elapsed := time.Since(startTime)
			slog.Info("eval",
				"n", evalCount,
				"of", *maxEvals,
				"fitness", fitness,
				"best", bestFitness,
				"capture_fraction", m.CaptureFraction,
				"size_gap", m.SizeGap,
				"elapsed", elapsed.Round(time.Second).String(),
			)
			return fitness
		},
	}

	dim := params.Dim()
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*math.Log(float64(dim)))
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	slog.Info("starting calibration",
		"params", dim,
		"population", popSize,
		"max_evals", *maxEvals,
		"seeds", *seeds,
		"rounds", *rounds,
	)

	initX := params.Normalize(params.DefaultVector())
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		slog.Error("no evaluations completed")
		os.Exit(1)
	}

	attrs := []any{"evals", evalCount, "fitness", bestFitness}
	for i, spec := range params.Specs {
		attrs = append(attrs, spec.Path, bestParams[i])
	}
	slog.Info("calibration complete", attrs...)

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)
	outPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(outPath); err != nil {
		slog.Error("failed to write best config", "error", err)
		os.Exit(1)
	}
	fmt.Println(outPath)
}
