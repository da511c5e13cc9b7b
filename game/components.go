package game

import "github.com/plus3/colorsquares/ecs"

// Square is a colored square in a lane. X is normally the lane's left edge
// but floats freely while the active square is being dragged.
type Square struct {
	Lane  int
	X, Y  float64
	Color Color
}

// Active tags the one falling square.
type Active struct{}

// Resting tags a square that has landed. Resting squares never move.
type Resting struct{}

type activeSquare struct {
	ecs.EntityId
	*Square
	*Active
}

type restingSquare struct {
	ecs.EntityId
	*Square
	*Resting
}

// RegisterComponents adds the game's component types to registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Square](registry)
	ecs.RegisterComponent[Active](registry)
	ecs.RegisterComponent[Resting](registry)
}
