// Package player provides a simulated player for headless runs.
//
// The bot treats every live entity as an independent Poisson process: in a step
// of dt seconds it catches an entity of size s with probability
// 1 - exp(-rate * s^bias * dt). A positive bias makes large entities easier to
// catch, which is the selection pressure a human player tends to apply.
package player

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/round"
)

// Bot captures entities at random, biased by size.
type Bot struct {
	cfg config.PlayerConfig
	rng *rand.Rand
}

// New creates a bot with its own random stream so that its choices do not
// disturb the engine's spawn sequence.
func New(cfg config.PlayerConfig, seed int64) *Bot {
	return &Bot{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// CaptureProbability returns the chance of catching an entity of the given
// size within dt seconds.
func (b *Bot) CaptureProbability(size, dt float64) float64 {
	if dt <= 0 || size <= 0 || b.cfg.CaptureRate <= 0 {
		return 0
	}
	hazard := b.cfg.CaptureRate * math.Pow(size, b.cfg.SizeBias)
	return 1 - math.Exp(-hazard*dt)
}

// Step rolls once per live entity and reports the catches to the engine.
// It returns the number of captures made.
func (b *Bot) Step(e *round.Engine, dt float64) int {
	caught := 0
	for _, ent := range e.Entities() {
		if b.rng.Float64() < b.CaptureProbability(ent.Trait.Size, dt) {
			e.ReportCapture(ent.Handle)
			caught++
		}
	}
	return caught
}
