package frontend_test

import (
	"testing"

	"github.com/plus3/colorsquares/frontend"
	"github.com/plus3/colorsquares/game"
	"github.com/stretchr/testify/assert"
)

func TestPointerTracker(t *testing.T) {
	var p frontend.PointerTracker

	assert.Empty(t, p.Sample(10, 10, false), "hovering emits nothing")
	assert.Equal(t, []game.Input{{Kind: game.InputPointerDown, X: 12, Y: 14}}, p.Sample(12, 14, true))
	assert.True(t, p.Down())
	assert.Empty(t, p.Sample(12, 14, true), "holding still emits nothing")
	assert.Equal(t, []game.Input{{Kind: game.InputPointerMove, X: 40, Y: 14}}, p.Sample(40, 14, true))
	assert.Equal(t, []game.Input{{Kind: game.InputPointerUp, X: 41, Y: 15}}, p.Sample(41, 15, false))
	assert.False(t, p.Down())
	assert.Empty(t, p.Sample(50, 50, false))
}
