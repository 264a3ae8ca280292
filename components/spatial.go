package components

// Position represents an entity's position in play-area (world) coordinates.
type Position struct {
	X, Y float32
}
