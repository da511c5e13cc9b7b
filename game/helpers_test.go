package game

import (
	"testing"

	"github.com/plus3/colorsquares/ecs"
	"github.com/stretchr/testify/require"
)

const tick = 1.0 / 60.0

func newTestGame(t *testing.T, opts ...Option) *Game {
	t.Helper()
	g, err := New(DefaultConfig(), append([]Option{WithSeed(7)}, opts...)...)
	require.NoError(t, err)
	return g
}

// startPlaying starts a session and replaces the random first square with a
// known one that is already past its settle delay.
func startPlaying(t *testing.T, g *Game, lane int, color Color, y float64) {
	t.Helper()
	g.Start()
	placeActive(g, lane, color, y)
}

func placeActive(g *Game, lane int, color Color, y float64) {
	for id := range g.active.Iter() {
		g.storage.Delete(id)
	}
	g.storage.Spawn(Square{Lane: lane, X: g.cfg.LaneX(lane), Y: y, Color: color}, Active{})

	session := g.session.Get()
	session.Phase = PhasePlaying
	session.Settle = 0
}

func placeResting(g *Game, lane int, color Color, y float64) ecs.EntityId {
	return g.storage.Spawn(Square{Lane: lane, X: g.cfg.LaneX(lane), Y: y, Color: color}, Resting{})
}

// stackLane piles n resting squares of alternating colors onto lane.
func stackLane(g *Game, lane, n int) {
	for i := range n {
		placeResting(g, lane, Color(i%2), g.cfg.FloorY()-float64(i)*g.cfg.SquareSize)
	}
}

func stepUntil(g *Game, limit int, done func(Snapshot) bool) (Snapshot, bool) {
	for range limit {
		g.Step(tick)
		if snap := g.Snapshot(); done(snap) {
			return snap, true
		}
	}
	return g.Snapshot(), false
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func assertRestingInvariants(t *testing.T, g *Game) {
	t.Helper()
	snap := g.Snapshot()
	cfg := g.cfg
	for lane := range cfg.Lanes {
		expected := cfg.FloorY()
		for i := len(snap.Resting) - 1; i >= 0; i-- {
			sq := snap.Resting[i]
			if sq.Lane != lane {
				continue
			}
			require.LessOrEqual(t, sq.Y+cfg.SquareSize, cfg.PlayfieldHeight)
			require.InDelta(t, expected, sq.Y, 1e-9, "lane %d stack has a gap", lane)
			require.Equal(t, cfg.LaneX(lane), sq.X)
			expected -= cfg.SquareSize
		}
	}
}
