// Package frontend holds the pieces shared by the interactive frontends.
package frontend

import "github.com/plus3/colorsquares/game"

// PointerTracker turns sampled button state into pointer inputs. Devices
// that report "button held at (x, y)" rather than discrete press, move and
// release events feed it one sample per poll.
type PointerTracker struct {
	down bool
	x, y float64
}

// Sample records the pointer at (x, y) and returns the inputs implied by
// the change since the previous sample.
func (p *PointerTracker) Sample(x, y float64, pressed bool) []game.Input {
	var out []game.Input
	switch {
	case pressed && !p.down:
		out = append(out, game.Input{Kind: game.InputPointerDown, X: x, Y: y})
	case pressed && (x != p.x || y != p.y):
		out = append(out, game.Input{Kind: game.InputPointerMove, X: x, Y: y})
	case !pressed && p.down:
		out = append(out, game.Input{Kind: game.InputPointerUp, X: x, Y: y})
	}
	p.down, p.x, p.y = pressed, x, y
	return out
}

// Down reports whether the button was held at the last sample.
func (p *PointerTracker) Down() bool {
	return p.down
}
