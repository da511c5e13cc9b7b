package game

import (
	"cmp"
	"iter"
	"slices"
)

// stacks holds the resting squares of every lane ordered top-first, so the
// first element of a lane is always the square a falling one meets first.
type stacks [][]restingSquare

func buildStacks(lanes int, resting iter.Seq[restingSquare]) stacks {
	s := make(stacks, lanes)
	for sq := range resting {
		if sq.Lane < 0 || sq.Lane >= lanes {
			continue
		}
		s[sq.Lane] = append(s[sq.Lane], sq)
	}
	for _, lane := range s {
		slices.SortFunc(lane, func(a, b restingSquare) int {
			return cmp.Compare(a.Y, b.Y)
		})
	}
	return s
}

func (s stacks) top(lane int) (restingSquare, bool) {
	if lane < 0 || lane >= len(s) || len(s[lane]) == 0 {
		return restingSquare{}, false
	}
	return s[lane][0], true
}

func (s stacks) height(lane int) int {
	if lane < 0 || lane >= len(s) {
		return 0
	}
	return len(s[lane])
}

func (s stacks) tallest() int {
	h := 0
	for _, lane := range s {
		h = max(h, len(lane))
	}
	return h
}

func (s stacks) total() int {
	n := 0
	for _, lane := range s {
		n += len(lane)
	}
	return n
}

// touches reports whether a square at y in lane has reached the lane's top
// square. An empty lane is never touched.
func (s stacks) touches(cfg *Config, lane int, y float64) (restingSquare, bool) {
	top, ok := s.top(lane)
	if !ok || y+cfg.SquareSize < top.Y {
		return restingSquare{}, false
	}
	return top, true
}
