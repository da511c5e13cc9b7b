// Package game implements the Color Squares simulation: squares fall down a
// fixed number of lanes, matching colors annihilate on contact and
// mismatching colors stack. The state lives in an ECS storage and advances
// one fixed step at a time through an ordered list of systems.
package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid game config")

// RGB is one palette entry.
type RGB struct {
	R, G, B uint8
}

// Color indexes into Config.Palette.
type Color uint8

// Config is the immutable geometry, timing and palette of a game. It is
// created once and shared read-only by every system.
type Config struct {
	PlayfieldWidth  float64
	PlayfieldHeight float64
	PanelWidth      float64
	Lanes           int
	SquareSize      float64

	// FallSpeed is the gravity in px/s at speed level 1. Every further level
	// multiplies it by GrowthFactor.
	FallSpeed    float64
	GrowthFactor float64
	FastDropStep float64

	SettleDelay    float64
	BlinkInterval  float64
	OverflowHeight int

	Palette []RGB
}

// DefaultConfig returns the standard 4-lane board.
func DefaultConfig() Config {
	return Config{
		PlayfieldWidth:  240,
		PlayfieldHeight: 600,
		PanelWidth:      60,
		Lanes:           4,
		SquareSize:      60,
		FallSpeed:       20,
		GrowthFactor:    1.3,
		FastDropStep:    20,
		SettleDelay:     2.0,
		BlinkInterval:   0.5,
		OverflowHeight:  9,
		Palette:         DefaultPalette(),
	}
}

// DefaultPalette returns the 15 square colors in menu order.
func DefaultPalette() []RGB {
	return []RGB{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{255, 255, 0},
		{255, 0, 255},
		{0, 255, 255},
		{128, 0, 128},
		{255, 165, 0},
		{0, 128, 0},
		{128, 128, 0},
		{0, 0, 128},
		{128, 0, 0},
		{0, 128, 128},
		{192, 192, 192},
		{255, 128, 0},
	}
}

// Validate checks the geometry and timing for internal consistency.
func (c Config) Validate() error {
	switch {
	case c.Lanes <= 0:
		return fmt.Errorf("lanes must be positive, got %d: %w", c.Lanes, ErrInvalidConfig)
	case c.PlayfieldWidth <= 0 || c.PlayfieldHeight <= 0:
		return fmt.Errorf("playfield %vx%v: %w", c.PlayfieldWidth, c.PlayfieldHeight, ErrInvalidConfig)
	case c.PanelWidth < 0:
		return fmt.Errorf("panel width %v: %w", c.PanelWidth, ErrInvalidConfig)
	case math.Mod(c.PlayfieldWidth, float64(c.Lanes)) != 0:
		return fmt.Errorf("playfield width %v is not divisible into %d lanes: %w", c.PlayfieldWidth, c.Lanes, ErrInvalidConfig)
	case c.SquareSize <= 0 || c.SquareSize > c.LaneWidth() || c.SquareSize > c.PlayfieldHeight:
		return fmt.Errorf("square size %v does not fit lane width %v: %w", c.SquareSize, c.LaneWidth(), ErrInvalidConfig)
	case c.FallSpeed <= 0 || c.GrowthFactor < 1 || c.FastDropStep <= 0:
		return fmt.Errorf("fall speed %v, growth %v, fast drop %v: %w", c.FallSpeed, c.GrowthFactor, c.FastDropStep, ErrInvalidConfig)
	case c.SettleDelay < 0 || c.BlinkInterval <= 0:
		return fmt.Errorf("settle delay %v, blink interval %v: %w", c.SettleDelay, c.BlinkInterval, ErrInvalidConfig)
	case c.OverflowHeight <= 0:
		return fmt.Errorf("overflow height %d: %w", c.OverflowHeight, ErrInvalidConfig)
	case len(c.Palette) < ColorChoices[len(ColorChoices)-1]:
		return fmt.Errorf("palette has %d colors, need %d: %w", len(c.Palette), ColorChoices[len(ColorChoices)-1], ErrInvalidConfig)
	}
	return nil
}

// Width is the full window width, playfield plus panel.
func (c Config) Width() float64 {
	return c.PlayfieldWidth + c.PanelWidth
}

// Height is the full window height.
func (c Config) Height() float64 {
	return c.PlayfieldHeight
}

// FallRate returns the gravity in px/s for a speed level.
func (c Config) FallRate(speed int) float64 {
	return c.FallSpeed * math.Pow(c.GrowthFactor, float64(speed-1))
}

// RGB returns the palette entry for color, or black when out of range.
func (c Config) RGB(color Color) RGB {
	if int(color) >= len(c.Palette) {
		return RGB{}
	}
	return c.Palette[color]
}
