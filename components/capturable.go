// Package components defines ECS components for capturable entities.
package components

import "github.com/pthm-cable/capture/traits"

// Capturable marks an entity the player can capture and holds the trait it was
// spawned with. The trait is never reassigned for the life of the entity.
type Capturable struct {
	Trait traits.Trait
	Round int // round the entity was spawned in
}
