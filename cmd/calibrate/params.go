package main

import "github.com/pthm-cable/capture/config"

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable bot parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "capture_rate", Path: "player.capture_rate", Min: 0.01, Max: 3.0, Default: 0.35},
			{Name: "size_bias", Path: "player.size_bias", Min: 0.0, Max: 4.0, Default: 1.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return out
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return out
}

// ApplyToConfig writes clamped parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Player.CaptureRate = clamped[0]
	cfg.Player.SizeBias = clamped[1]
}

// ExtractFromConfig reads current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{cfg.Player.CaptureRate, cfg.Player.SizeBias}
}
