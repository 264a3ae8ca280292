package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RoundStats holds aggregated statistics for one finished round.
type RoundStats struct {
	Round       int     `csv:"round"`
	ElapsedSec  float64 `csv:"elapsed"`
	Spawned     int     `csv:"spawned"`
	Captured    int     `csv:"captured"`
	Survivors   int     `csv:"survivors"`
	Inherited   int     `csv:"inherited_next"`
	ArchiveSize int     `csv:"archive_size"`

	TotalCaptured int     `csv:"total_captured"`
	CaptureRate   float64 `csv:"capture_rate"` // session captures per second

	// Trait distribution of the batch that played this round
	HueMean        float64 `csv:"hue_mean"`
	HueStd         float64 `csv:"hue_std"`
	SaturationMean float64 `csv:"saturation_mean"`
	ValueMean      float64 `csv:"value_mean"`
	SizeMean       float64 `csv:"size_mean"`
	SizeStd        float64 `csv:"size_std"`
	SizeP10        float64 `csv:"size_p10"`
	SizeP50        float64 `csv:"size_p50"`
	SizeP90        float64 `csv:"size_p90"`

	// Selection pressure: what the player took versus what got away
	CapturedSizeMean float64 `csv:"captured_size_mean"`
	SurvivorSizeMean float64 `csv:"survivor_size_mean"`
}

// Percentile returns the p-th quantile of a sorted slice using the empirical CDF.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// MeanStd returns the mean and sample standard deviation.
// Fewer than two values give a zero deviation.
func MeanStd(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// ComputeSizeStats calculates mean, std, and percentiles from size values.
func ComputeSizeStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = MeanStd(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s RoundStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("round", s.Round),
		slog.Float64("elapsed", s.ElapsedSec),
		slog.Int("spawned", s.Spawned),
		slog.Int("captured", s.Captured),
		slog.Int("survivors", s.Survivors),
		slog.Int("inherited_next", s.Inherited),
		slog.Int("archive_size", s.ArchiveSize),
		slog.Int("total_captured", s.TotalCaptured),
		slog.Float64("capture_rate", s.CaptureRate),
		slog.Float64("hue_mean", s.HueMean),
		slog.Float64("hue_std", s.HueStd),
		slog.Float64("saturation_mean", s.SaturationMean),
		slog.Float64("value_mean", s.ValueMean),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
		slog.Float64("size_p10", s.SizeP10),
		slog.Float64("size_p50", s.SizeP50),
		slog.Float64("size_p90", s.SizeP90),
		slog.Float64("captured_size_mean", s.CapturedSizeMean),
		slog.Float64("survivor_size_mean", s.SurvivorSizeMean),
	)
}

// LogStats logs the round stats using slog.
func (s RoundStats) LogStats() {
	slog.Info("round_stats", "stats", s)
}
