// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("invalid config")

// Selection policies for choosing breeding parents.
const (
	SelectionArchive   = "archive"    // every trait that ever survived a round
	SelectionLastRound = "last_round" // only traits that survived the round just finished
)

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Round     RoundConfig     `yaml:"round"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Mutation  MutationConfig  `yaml:"mutation"`
	PlayArea  PlayArea        `yaml:"play_area"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Player    PlayerConfig    `yaml:"player"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Clamp restricts v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// RoundConfig holds round timing and batch size.
type RoundConfig struct {
	SpawnCount int     `yaml:"spawn_count"`
	Duration   float64 `yaml:"duration"`  // seconds
	Selection  string  `yaml:"selection"` // archive | last_round
}

// SpawnConfig holds the ranges used when a trait is generated without a parent.
type SpawnConfig struct {
	Hue        Range `yaml:"hue"`
	Saturation Range `yaml:"saturation"`
	Value      Range `yaml:"value"`
	Size       Range `yaml:"size"`
}

// MutationConfig holds the symmetric perturbation ranges applied to inherited traits.
type MutationConfig struct {
	HueDelta        float64        `yaml:"hue_delta"`
	SaturationDelta float64        `yaml:"saturation_delta"`
	ValueDelta      float64        `yaml:"value_delta"`
	SizeDelta       float64        `yaml:"size_delta"`
	SizeClamp       Range          `yaml:"size_clamp"`
	HueClamp        HueClampConfig `yaml:"hue_clamp"`
}

// HueClampConfig optionally pins mutated hue into a band after wrapping.
type HueClampConfig struct {
	Enabled bool    `yaml:"enabled"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

// PlayArea is the world-space rectangle entities spawn in.
type PlayArea struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// Width returns the horizontal extent of the play area.
func (p PlayArea) Width() float64 { return p.MaxX - p.MinX }

// Height returns the vertical extent of the play area.
func (p PlayArea) Height() float64 { return p.MaxY - p.MinY }

// Contains reports whether (x, y) lies inside the play area.
func (p PlayArea) Contains(x, y float64) bool {
	return x >= p.MinX && x <= p.MaxX && y >= p.MinY && y <= p.MaxY
}

// Valid reports whether the area is finite with positive width and height.
func (p PlayArea) Valid() bool {
	return p.MinX < p.MaxX && p.MinY < p.MaxY && finite(p.Width()) && finite(p.Height())
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	CaptureRateScale float64 `yaml:"capture_rate_scale"` // captures/sec shown as a full meter
	LogRounds        bool    `yaml:"log_rounds"`
}

// PlayerConfig tunes the simulated player used in headless runs.
type PlayerConfig struct {
	CaptureRate float64 `yaml:"capture_rate"`
	SizeBias    float64 `yaml:"size_bias"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	FrameDT   float64 // 1 / Screen.TargetFPS, used as the fixed headless step
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. It panics if they fail to parse or validate,
// which can only happen if defaults.yaml is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every configuration error found, joined into one error.
// Each one wraps ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Round.SpawnCount <= 0 {
		fail("round.spawn_count must be positive, got %d", c.Round.SpawnCount)
	}
	if !positive(c.Round.Duration) {
		fail("round.duration must be positive, got %g", c.Round.Duration)
	}
	switch c.Round.Selection {
	case SelectionArchive, SelectionLastRound:
	default:
		fail("round.selection must be %q or %q, got %q", SelectionArchive, SelectionLastRound, c.Round.Selection)
	}

	unit := Range{Min: 0, Max: 1}
	for _, f := range []struct {
		name string
		r    Range
	}{
		{"spawn.hue", c.Spawn.Hue},
		{"spawn.saturation", c.Spawn.Saturation},
		{"spawn.value", c.Spawn.Value},
	} {
		if f.r.Min > f.r.Max {
			fail("%s is inverted: min %g > max %g", f.name, f.r.Min, f.r.Max)
		} else if !unit.Contains(f.r.Min) || !unit.Contains(f.r.Max) {
			fail("%s must lie within [0,1], got [%g,%g]", f.name, f.r.Min, f.r.Max)
		}
	}
	if !positive(c.Spawn.Size.Min) || !ordered(c.Spawn.Size) {
		fail("spawn.size must be positive and ordered, got [%g,%g]", c.Spawn.Size.Min, c.Spawn.Size.Max)
	}

	m := c.Mutation
	if !nonNegative(m.HueDelta) || !nonNegative(m.SaturationDelta) ||
		!nonNegative(m.ValueDelta) || !nonNegative(m.SizeDelta) {
		fail("mutation deltas must be finite and non-negative")
	}
	if !positive(m.SizeClamp.Min) || !ordered(m.SizeClamp) {
		fail("mutation.size_clamp must be positive and ordered, got [%g,%g]", m.SizeClamp.Min, m.SizeClamp.Max)
	}
	if m.HueClamp.Enabled {
		hc := Range{Min: m.HueClamp.Min, Max: m.HueClamp.Max}
		if hc.Min > hc.Max || !unit.Contains(hc.Min) || !unit.Contains(hc.Max) {
			fail("mutation.hue_clamp must be an ordered band within [0,1], got [%g,%g]", hc.Min, hc.Max)
		}
	}

	if !c.PlayArea.Valid() {
		fail("play_area is empty, inverted or non-finite: x [%g,%g] y [%g,%g]",
			c.PlayArea.MinX, c.PlayArea.MaxX, c.PlayArea.MinY, c.PlayArea.MaxY)
	}

	if !positive(c.Telemetry.CaptureRateScale) {
		fail("telemetry.capture_rate_scale must be positive, got %g", c.Telemetry.CaptureRateScale)
	}

	if !nonNegative(c.Player.CaptureRate) {
		fail("player.capture_rate must be finite and non-negative, got %g", c.Player.CaptureRate)
	}
	if !finite(c.Player.SizeBias) {
		fail("player.size_bias must be finite, got %g", c.Player.SizeBias)
	}

	return errors.Join(errs...)
}

// finite rejects NaN and both infinities.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// positive is v > 0 and finite. NaN fails every comparison, so it is rejected too.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// ordered reports whether both ends are finite and Min <= Max.
func ordered(r Range) bool {
	return finite(r.Min) && finite(r.Max) && r.Min <= r.Max
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.FrameDT = 1.0 / float64(fps)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
