package game

import "math"

// LaneWidth is the pixel width of one lane.
func (c Config) LaneWidth() float64 {
	return c.PlayfieldWidth / float64(c.Lanes)
}

// ClampLane forces lane into [0, Lanes).
func (c Config) ClampLane(lane int) int {
	return max(0, min(lane, c.Lanes-1))
}

// LaneX is the left edge of lane.
func (c Config) LaneX(lane int) float64 {
	return float64(c.ClampLane(lane)) * c.LaneWidth()
}

// NearestLane rounds a square's left edge to the closest lane.
func (c Config) NearestLane(x float64) int {
	return c.ClampLane(int(math.Round(x / c.LaneWidth())))
}

// LaneAt returns the lane under a pointer x coordinate.
func (c Config) LaneAt(x float64) (int, bool) {
	if x < 0 || x >= c.PlayfieldWidth {
		return 0, false
	}
	return c.ClampLane(int(x / c.LaneWidth())), true
}

// ClampX keeps a free-floating square inside the playfield.
func (c Config) ClampX(x float64) float64 {
	return max(0, min(x, c.PlayfieldWidth-c.SquareSize))
}

// InPlayfield reports whether a pointer position is over the lanes.
func (c Config) InPlayfield(x, y float64) bool {
	return x >= 0 && x < c.PlayfieldWidth && y >= 0 && y < c.PlayfieldHeight
}

// FloorY is the resting Y of a square on the playfield floor.
func (c Config) FloorY() float64 {
	return c.PlayfieldHeight - c.SquareSize
}
