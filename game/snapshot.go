package game

import (
	"cmp"
	"slices"
)

// SquareState is a copy of one square for drawing.
type SquareState struct {
	Lane  int
	X, Y  float64
	Color Color
}

// Snapshot is a read-only copy of everything a frontend draws.
type Snapshot struct {
	Tick      uint64
	Phase     Phase
	Outcome   Outcome
	Settings  Settings
	Remaining int
	Elapsed   int
	ShowTime  bool
	Dragging  bool

	Active    SquareState
	HasActive bool
	// Resting is ordered by lane, then top-first.
	Resting []SquareState
}

// Settling reports whether the active square is waiting out its settle delay.
func (s Snapshot) Settling() bool {
	return s.HasActive && s.Phase == PhaseSettleDelay
}

// LaneHeight counts the resting squares in lane.
func (s Snapshot) LaneHeight(lane int) int {
	n := 0
	for _, sq := range s.Resting {
		if sq.Lane == lane {
			n++
		}
	}
	return n
}

// LaneTop returns the topmost resting square of lane.
func (s Snapshot) LaneTop(lane int) (SquareState, bool) {
	for _, sq := range s.Resting {
		if sq.Lane == lane {
			return sq, true
		}
	}
	return SquareState{}, false
}

func stateOf(sq *Square) SquareState {
	return SquareState{Lane: sq.Lane, X: sq.X, Y: sq.Y, Color: sq.Color}
}

func sortResting(squares []SquareState) {
	slices.SortFunc(squares, func(a, b SquareState) int {
		return cmp.Or(cmp.Compare(a.Lane, b.Lane), cmp.Compare(a.Y, b.Y))
	})
}
