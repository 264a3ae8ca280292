package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/session"
	"github.com/pthm-cable/capture/telemetry"
)

// Targets are the behaviour the bot should reproduce, averaged over rounds.
type Targets struct {
	CaptureFraction float64 // captured / spawned per round
	SizeGap         float64 // captured size mean minus survivor size mean
	GapWeight       float64 // weight of the size-gap term
}

// RunMetrics summarises one headless run.
type RunMetrics struct {
	CaptureFraction float64
	SizeGap         float64
	Rounds          int
}

// FitnessEvaluator runs headless sessions and scores how close the bot's
// behaviour is to the targets.
type FitnessEvaluator struct {
	params     *ParamVector
	rounds     int
	seeds      []int64
	baseConfig *config.Config
	targets    Targets

	mu          sync.Mutex
	lastMetrics RunMetrics
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, rounds int, seeds []int64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		rounds:     rounds,
		seeds:      seeds,
		baseConfig: baseCfg,
		targets:    targets,
	}
}

// LastMetrics returns the seed-averaged metrics of the most recent evaluation.
func (fe *FitnessEvaluator) LastMetrics() RunMetrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Seeds are independent sessions, run them in parallel
	results := make([]RunMetrics, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSession(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var avg RunMetrics
	for _, r := range results {
		avg.CaptureFraction += r.CaptureFraction
		avg.SizeGap += r.SizeGap
		avg.Rounds += r.Rounds
	}
	n := float64(len(results))
	avg.CaptureFraction /= n
	avg.SizeGap /= n

	fe.mu.Lock()
	fe.lastMetrics = avg
	fe.mu.Unlock()

	return fe.computeFitness(avg)
}

// computeFitness is the weighted squared distance to the targets.
func (fe *FitnessEvaluator) computeFitness(m RunMetrics) float64 {
	df := m.CaptureFraction - fe.targets.CaptureFraction
	dg := m.SizeGap - fe.targets.SizeGap
	return df*df + fe.targets.GapWeight*dg*dg
}

// runSession plays fe.rounds rounds headless and averages the round stats.
func (fe *FitnessEvaluator) runSession(cfg *config.Config, seed int64) RunMetrics {
	var stats []telemetry.RoundStats
	s, err := session.New(cfg, session.Options{
		Seed:    seed,
		Bot:     true,
		OnStats: func(st telemetry.RoundStats) { stats = append(stats, st) },
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		// Configs come from a validated base with clamped parameters
		slog.Error("session failed", "seed", seed, "error", err)
		return RunMetrics{CaptureFraction: math.Inf(1)}
	}
	defer s.Close()

	s.Start()
	for len(stats) < fe.rounds {
		s.Step(cfg.Derived.FrameDT)
	}

	return summarize(stats)
}

// summarize averages capture fraction over all rounds and the size gap over
// rounds where both captures and survivors exist.
func summarize(stats []telemetry.RoundStats) RunMetrics {
	m := RunMetrics{Rounds: len(stats)}

	var fractions, gaps []float64
	for _, st := range stats {
		if st.Spawned > 0 {
			fractions = append(fractions, float64(st.Captured)/float64(st.Spawned))
		}
		if st.Captured > 0 && st.Survivors > 0 {
			gaps = append(gaps, st.CapturedSizeMean-st.SurvivorSizeMean)
		}
	}
	m.CaptureFraction = telemetry.Mean(fractions)
	m.SizeGap = telemetry.Mean(gaps)
	return m
}

// copyConfig returns a private copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	c := *fe.baseConfig
	return &c
}
