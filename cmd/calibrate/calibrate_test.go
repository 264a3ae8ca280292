package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/telemetry"
)

func TestParamVectorRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: %g -> %g", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVectorApplyClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{100, -5})
	got := pv.ExtractFromConfig(cfg)
	if got[0] != pv.Specs[0].Max || got[1] != pv.Specs[1].Min {
		t.Errorf("applied %v, want clamped to [%g %g]", got, pv.Specs[0].Max, pv.Specs[1].Min)
	}
}

func TestSummarize(t *testing.T) {
	stats := []telemetry.RoundStats{
		{Spawned: 10, Captured: 5, Survivors: 5, CapturedSizeMean: 1.0, SurvivorSizeMean: 0.8},
		{Spawned: 10, Captured: 10, Survivors: 0, CapturedSizeMean: 0.9},
		{Spawned: 10, Captured: 0, Survivors: 10, SurvivorSizeMean: 0.7},
	}

	m := summarize(stats)
	if m.Rounds != 3 {
		t.Errorf("Rounds = %d, want 3", m.Rounds)
	}
	if math.Abs(m.CaptureFraction-0.5) > 1e-9 {
		t.Errorf("CaptureFraction = %g, want 0.5", m.CaptureFraction)
	}
	// Only the first round has both captures and survivors
	if math.Abs(m.SizeGap-0.2) > 1e-9 {
		t.Errorf("SizeGap = %g, want 0.2", m.SizeGap)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Round.SpawnCount = 5
	cfg.Round.Duration = 1

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 3, []int64{1, 2}, cfg, Targets{CaptureFraction: 0.5, SizeGap: 0.1, GapWeight: 1})

	a := fe.Evaluate(pv.DefaultVector())
	ma := fe.LastMetrics()
	b := fe.Evaluate(pv.DefaultVector())

	if a != b {
		t.Errorf("fitness differs between identical evaluations: %g vs %g", a, b)
	}
	if ma.Rounds != 6 {
		t.Errorf("Rounds = %d, want 3 per seed", ma.Rounds)
	}
	if math.IsNaN(a) || math.IsInf(a, 0) {
		t.Errorf("fitness = %g", a)
	}
}

func TestHigherRateCapturesMore(t *testing.T) {
	cfg := config.Default()
	cfg.Round.SpawnCount = 10
	cfg.Round.Duration = 2

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 5, []int64{7}, cfg, Targets{})

	fe.Evaluate([]float64{0.01, 1})
	low := fe.LastMetrics().CaptureFraction
	fe.Evaluate([]float64{3.0, 1})
	high := fe.LastMetrics().CaptureFraction

	if high <= low {
		t.Errorf("capture fraction at high rate %g should exceed low rate %g", high, low)
	}
}
