// Package telemetry provides per-round statistics and CSV output for the capture game.
package telemetry

import (
	"github.com/pthm-cable/capture/round"
	"github.com/pthm-cable/capture/traits"
)

// Collector accumulates capture events within a round and produces RoundStats
// when the round ends.
type Collector struct {
	capturedSizes []float64
	rounds        int
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordCapture records a captured entity's trait.
func (c *Collector) RecordCapture(t traits.Trait) {
	c.capturedSizes = append(c.capturedSizes, t.Size)
}

// Rounds returns how many rounds have been flushed.
func (c *Collector) Rounds() int {
	return c.rounds
}

// Flush produces RoundStats for a finished round and resets the capture buffer.
func (c *Collector) Flush(s round.Summary) RoundStats {
	n := len(s.Batch)
	hues := make([]float64, 0, n)
	sats := make([]float64, 0, n)
	vals := make([]float64, 0, n)
	sizes := make([]float64, 0, n)
	for _, t := range s.Batch {
		hues = append(hues, t.Hue)
		sats = append(sats, t.Saturation)
		vals = append(vals, t.Value)
		sizes = append(sizes, t.Size)
	}

	survivorSizes := make([]float64, 0, len(s.Survivors))
	for _, t := range s.Survivors {
		survivorSizes = append(survivorSizes, t.Size)
	}

	hueMean, hueStd := MeanStd(hues)
	sizeMean, sizeStd, sizeP10, sizeP50, sizeP90 := ComputeSizeStats(sizes)

	var rate float64
	if s.Elapsed > 0 {
		rate = float64(s.TotalCaptured) / s.Elapsed
	}

	stats := RoundStats{
		Round:       s.Round,
		ElapsedSec:  s.Elapsed,
		Spawned:     s.Spawned,
		Captured:    s.Captured,
		Survivors:   len(s.Survivors),
		Inherited:   s.Inherited,
		ArchiveSize: s.ArchiveSize,

		TotalCaptured: s.TotalCaptured,
		CaptureRate:   rate,

		HueMean:        hueMean,
		HueStd:         hueStd,
		SaturationMean: Mean(sats),
		ValueMean:      Mean(vals),
		SizeMean:       sizeMean,
		SizeStd:        sizeStd,
		SizeP10:        sizeP10,
		SizeP50:        sizeP50,
		SizeP90:        sizeP90,

		CapturedSizeMean: Mean(c.capturedSizes),
		SurvivorSizeMean: Mean(survivorSizes),
	}

	c.capturedSizes = c.capturedSizes[:0]
	c.rounds++

	return stats
}
