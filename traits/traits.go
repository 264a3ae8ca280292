// Package traits defines the inheritable attributes of capturable entities
// and the rules for generating and mutating them.
package traits

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/capture/config"
)

// ID identifies a trait for its whole session lifetime. Zero means "no trait".
type ID uint64

// Trait is the colour and size an entity is born with, plus whether it made it
// through its round. Colour channels are stored as hue/saturation/value in [0,1].
//
// Trait is a value type: copies never alias, and colour/size are fixed at
// creation. A child is always a new Trait derived from its parent.
type Trait struct {
	ID         ID
	ParentID   ID  // zero for randomly generated traits
	Generation int // round the trait was created for

	Hue        float64
	Saturation float64
	Value      float64
	Size       float64

	Survived bool
}

// Inherited reports whether the trait was derived from a parent.
func (t Trait) Inherited() bool {
	return t.ParentID != 0
}

// Color returns the trait colour in RGB.
func (t Trait) Color() colorful.Color {
	return colorful.Hsv(t.Hue*360, t.Saturation, t.Value).Clamped()
}

// RGB255 returns the trait colour as 8-bit channels.
func (t Trait) RGB255() (r, g, b uint8) {
	return t.Color().RGB255()
}

// Hex returns the trait colour as "#rrggbb".
func (t Trait) Hex() string {
	return t.Color().Hex()
}

// FromColor builds colour channels from an RGB colour.
func FromColor(c colorful.Color, size float64) Trait {
	h, s, v := c.Hsv()
	return Trait{Hue: h / 360, Saturation: s, Value: v, Size: size}
}

// Random generates a trait with every channel drawn uniformly from the spawn ranges.
// The caller assigns ID and Generation.
func Random(rng *rand.Rand, cfg config.SpawnConfig) Trait {
	return Trait{
		Hue:        uniform(rng, cfg.Hue),
		Saturation: uniform(rng, cfg.Saturation),
		Value:      uniform(rng, cfg.Value),
		Size:       uniform(rng, cfg.Size),
	}
}

// Mutate derives a child from parent by perturbing each channel independently.
// Hue wraps modulo 1 (then optionally clamps to the hue band), saturation and value
// clamp to [0,1], size clamps to the size band. The child starts unsurvived and
// records parent as its ParentID; the caller assigns ID and Generation.
func Mutate(parent Trait, rng *rand.Rand, cfg config.MutationConfig) Trait {
	hue := wrapUnit(parent.Hue + jitter(rng, cfg.HueDelta))
	if cfg.HueClamp.Enabled {
		hue = config.Range{Min: cfg.HueClamp.Min, Max: cfg.HueClamp.Max}.Clamp(hue)
	}

	return Trait{
		ParentID:   parent.ID,
		Hue:        hue,
		Saturation: clampUnit(parent.Saturation + jitter(rng, cfg.SaturationDelta)),
		Value:      clampUnit(parent.Value + jitter(rng, cfg.ValueDelta)),
		Size:       cfg.SizeClamp.Clamp(parent.Size + jitter(rng, cfg.SizeDelta)),
	}
}

// uniform draws from [r.Min, r.Max).
func uniform(rng *rand.Rand, r config.Range) float64 {
	return r.Min + rng.Float64()*r.Span()
}

// jitter draws from [-d, d).
func jitter(rng *rand.Rand, d float64) float64 {
	return (rng.Float64()*2 - 1) * d
}

// wrapUnit maps x into [0, 1).
func wrapUnit(x float64) float64 {
	x = math.Mod(x, 1)
	if x < 0 {
		x++
	}
	if x >= 1 {
		x = 0
	}
	return x
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
