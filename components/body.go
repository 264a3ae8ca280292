package components

import "github.com/pthm-cable/capture/traits"

// Body holds the physical extent of an entity.
type Body struct {
	Radius float32 // world units; the trait size is the diameter
}

// BodyFromTrait returns the body for a trait.
func BodyFromTrait(t traits.Trait) Body {
	return Body{Radius: float32(t.Size / 2)}
}
