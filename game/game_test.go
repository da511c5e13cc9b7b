package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	red  Color = 0
	blue Color = 2
)

func TestNewGameIsIdle(t *testing.T) {
	g := newTestGame(t)
	snap := g.Snapshot()

	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.False(t, snap.HasActive)
	assert.Empty(t, snap.Resting)
	assert.Equal(t, DefaultSettings(), snap.Settings)
	assert.Equal(t, 10, snap.Remaining)

	for range 120 {
		g.Step(tick)
	}
	snap = g.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase, "nothing happens until Start")
	assert.Equal(t, 0, snap.Elapsed)
}

func TestOpenStartsOnlyFromIdle(t *testing.T) {
	g := newTestGame(t)
	g.Open()
	snap := g.Snapshot()
	require.Equal(t, PhaseSettleDelay, snap.Phase)
	require.True(t, snap.HasActive)

	g.Stop()
	g.Open()
	assert.Equal(t, PhaseStopped, g.Snapshot().Phase, "a stopped game waits for Start")
}

func TestNewRejectsInvalidInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PlayfieldWidth = 250
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(DefaultConfig(), WithSettings(Settings{Colors: 6, Speed: 1, Total: 10}))
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestStartSpawnsSettlingSquare(t *testing.T) {
	g := newTestGame(t)
	g.Start()

	snap := g.Snapshot()
	require.True(t, snap.HasActive)
	assert.Equal(t, PhaseSettleDelay, snap.Phase)
	assert.True(t, snap.Settling())
	assert.Equal(t, 9, snap.Remaining)
	assert.Equal(t, 0.0, snap.Active.Y)
	assert.Equal(t, g.cfg.LaneX(snap.Active.Lane), snap.Active.X)
	assert.Equal(t, []EventKind{EventReset, EventSpawned}, kinds(g.Events()))
}

func TestSettleDelay(t *testing.T) {
	g := newTestGame(t)
	g.Start()
	lane := g.Snapshot().Active.Lane

	for range 119 {
		g.Step(tick)
	}
	snap := g.Snapshot()
	assert.Equal(t, PhaseSettleDelay, snap.Phase)
	assert.Equal(t, 0.0, snap.Active.Y)

	g.Push(Input{Kind: InputKeyDown, Key: KeyLeft}, Input{Kind: InputKeyDown, Key: KeyRight})
	g.Step(tick)
	snap = g.Snapshot()
	assert.Equal(t, PhasePlaying, snap.Phase, "two seconds have passed")
	assert.Equal(t, 0.0, snap.Active.Y, "the square does not fall on the tick the delay clears")
	assert.Equal(t, lane, snap.Active.Lane, "steering is ignored while settling")

	g.Step(tick)
	assert.InDelta(t, 20.0/60.0, g.Snapshot().Active.Y, 1e-9)
}

func TestFallSpeedCompoundsPerLevel(t *testing.T) {
	for _, speed := range []int{1, 2, 5, 10} {
		g := newTestGame(t, WithSettings(Settings{Colors: 4, Speed: speed, Total: 10}))
		startPlaying(t, g, 0, red, 0)
		g.Step(tick)

		want := 20 * pow(1.3, speed-1) / 60
		assert.InDelta(t, want, g.Snapshot().Active.Y, 1e-9, "speed %d", speed)
	}
}

func pow(base float64, n int) float64 {
	r := 1.0
	for range n {
		r *= base
	}
	return r
}

func TestScenarioFastDropToFloor(t *testing.T) {
	g := newTestGame(t)
	startPlaying(t, g, 2, red, 530)
	remaining := g.Snapshot().Remaining

	cx := g.cfg.LaneX(2) + 30
	g.Push(
		Input{Kind: InputPointerDown, X: cx, Y: 560},
		Input{Kind: InputPointerMove, X: cx, Y: 600},
	)
	g.Step(tick)

	snap := g.Snapshot()
	require.Len(t, snap.Resting, 1)
	assert.Equal(t, SquareState{Lane: 2, X: 120, Y: 540, Color: red}, snap.Resting[0])
	assert.True(t, snap.HasActive, "next square spawned")
	assert.Equal(t, PhaseSettleDelay, snap.Phase)
	assert.Equal(t, remaining-1, snap.Remaining)
	assert.False(t, snap.Dragging)
	assert.Equal(t, []EventKind{EventFastDrop, EventLanded, EventSpawned}, kinds(g.Events()))
}

func TestScenarioMatchAnnihilates(t *testing.T) {
	g := newTestGame(t)
	startPlaying(t, g, 2, red, 479.9)
	placeResting(g, 2, red, 540)
	remaining := g.Snapshot().Remaining

	g.Step(tick)

	snap := g.Snapshot()
	assert.Empty(t, snap.Resting, "resting square removed, falling square discarded")
	assert.True(t, snap.HasActive)
	assert.Equal(t, 0.0, snap.Active.Y, "a fresh square replaced the discarded one")
	assert.Equal(t, remaining-1, snap.Remaining)
	assert.Equal(t, []EventKind{EventMatched, EventSpawned}, kinds(g.Events()))
}

func TestScenarioMismatchStacks(t *testing.T) {
	g := newTestGame(t)
	startPlaying(t, g, 2, red, 479.9)
	placeResting(g, 2, blue, 540)

	g.Step(tick)

	snap := g.Snapshot()
	require.Len(t, snap.Resting, 2)
	assert.Equal(t, SquareState{Lane: 2, X: 120, Y: 480, Color: red}, snap.Resting[0])
	assert.Equal(t, SquareState{Lane: 2, X: 120, Y: 540, Color: blue}, snap.Resting[1])
	assert.Equal(t, []EventKind{EventStacked, EventSpawned}, kinds(g.Events()))
	assertRestingInvariants(t, g)
}

func TestStepPastStackTopStacksInsteadOfLanding(t *testing.T) {
	g := newTestGame(t)
	startPlaying(t, g, 1, red, 545)
	placeResting(g, 1, blue, 540)

	g.Step(0)

	snap := g.Snapshot()
	require.Len(t, snap.Resting, 2)
	assert.Equal(t, 480.0, snap.Resting[0].Y, "the square sits on the stack, not on the floor")
	assert.Equal(t, EventStacked, g.Events()[0].Kind)
	assertRestingInvariants(t, g)
}

func TestScenarioOverflow(t *testing.T) {
	g := newTestGame(t, WithSettings(Settings{Colors: 4, Speed: 1, Total: 50}))
	startPlaying(t, g, 2, 3, 59.9)
	stackLane(g, 2, 8)

	g.Step(tick)

	snap := g.Snapshot()
	assert.Equal(t, 9, snap.LaneHeight(2))
	assert.Equal(t, PhaseGameOver, snap.Phase)
	assert.Equal(t, OutcomeOverflow, snap.Outcome)
	assert.Positive(t, snap.Remaining, "overflow ends the game regardless of the budget")
	assert.Contains(t, kinds(g.Events()), EventGameOver)
	assertRestingInvariants(t, g)
}

func TestScenarioExhaustion(t *testing.T) {
	t.Run("squares left on the board", func(t *testing.T) {
		g := newTestGame(t)
		startPlaying(t, g, 0, red, 530)
		g.session.Get().Remaining = 0

		var snap Snapshot
		for range 100 {
			g.Step(tick)
			snap = g.Snapshot()
			if snap.Phase == PhaseGameOver {
				break
			}
			require.True(t, snap.HasActive, "the game continues while a square is in play")
		}

		assert.Equal(t, PhaseGameOver, snap.Phase)
		assert.Equal(t, OutcomeExhausted, snap.Outcome)
		assert.False(t, snap.HasActive)
		assert.Len(t, snap.Resting, 1)
		assert.Equal(t, 0, snap.Remaining)
	})

	t.Run("board cleared", func(t *testing.T) {
		g := newTestGame(t)
		startPlaying(t, g, 0, red, 479.9)
		placeResting(g, 0, red, 540)
		g.session.Get().Remaining = 0

		g.Step(tick)

		snap := g.Snapshot()
		assert.Equal(t, PhaseGameOver, snap.Phase)
		assert.Equal(t, OutcomeCleared, snap.Outcome)
		assert.Empty(t, snap.Resting)
	})
}

func TestGameOverFreezesAndBlinks(t *testing.T) {
	g := newTestGame(t)
	startPlaying(t, g, 2, 3, 59.9)
	stackLane(g, 2, 8)
	g.Step(tick)
	require.Equal(t, PhaseGameOver, g.Snapshot().Phase)

	before := g.Snapshot()
	assert.True(t, before.ShowTime)

	g.Push(Input{Kind: InputKeyDown, Key: KeyLeft})
	for range 30 {
		g.Step(tick)
	}
	after := g.Snapshot()
	assert.False(t, after.ShowTime, "time display blinks every half second")
	assert.Equal(t, before.Active, after.Active, "nothing moves after game over")
	assert.Equal(t, before.Elapsed, after.Elapsed)

	for range 30 {
		g.Step(tick)
	}
	assert.True(t, g.Snapshot().ShowTime)
}

func TestElapsedTime(t *testing.T) {
	g := newTestGame(t)
	g.Start()
	for range 60 {
		g.Step(tick)
	}
	assert.Equal(t, 1, g.Snapshot().Elapsed)

	for range 90 {
		g.Step(tick)
	}
	assert.Equal(t, 2, g.Snapshot().Elapsed)
}

func TestStop(t *testing.T) {
	g := newTestGame(t, WithSettings(Settings{Colors: 7, Speed: 3, Total: 20}))
	g.Start()
	placeResting(g, 1, red, 540)
	for range 200 {
		g.Step(tick)
	}

	g.Stop()
	first := g.Snapshot()
	firstSession := g.Session()
	assert.Equal(t, PhaseStopped, first.Phase)
	assert.False(t, first.HasActive)
	assert.Empty(t, first.Resting)
	assert.Equal(t, 0, first.Elapsed)
	assert.Equal(t, Settings{Colors: 7, Speed: 3, Total: 20}, first.Settings)
	assert.Equal(t, []EventKind{EventStopped}, kinds(g.Events()))

	g.Stop()
	second := g.Snapshot()
	assert.Equal(t, firstSession, g.Session())
	first.Tick, second.Tick = 0, 0
	assert.Equal(t, first, second, "stopping twice equals stopping once")
	assert.Empty(t, g.Events())

	for range 120 {
		g.Step(tick)
	}
	assert.Equal(t, 0, g.Snapshot().Elapsed, "the clock does not run while stopped")
}

func TestStartAfterGameOverResets(t *testing.T) {
	g := newTestGame(t)
	startPlaying(t, g, 2, 3, 59.9)
	stackLane(g, 2, 8)
	g.Step(tick)
	require.Equal(t, PhaseGameOver, g.Snapshot().Phase)

	g.Start()
	snap := g.Snapshot()
	assert.Equal(t, PhaseSettleDelay, snap.Phase)
	assert.Equal(t, OutcomeNone, snap.Outcome)
	assert.Empty(t, snap.Resting)
	assert.True(t, snap.HasActive)
	assert.Equal(t, 9, snap.Remaining)
	assert.Equal(t, 0, snap.Elapsed)
}

func TestSpawnBudget(t *testing.T) {
	cfg := DefaultConfig()
	session := newSession(Settings{Colors: 5, Speed: 1, Total: 10})
	session.reset()
	spawner := NewSpawner(3)

	for i := range 10 {
		sq, ok := spawner.Spawn(&cfg, &session)
		require.True(t, ok, "spawn %d", i)
		assert.Less(t, int(sq.Color), 5)
		assert.GreaterOrEqual(t, sq.Lane, 0)
		assert.Less(t, sq.Lane, cfg.Lanes)
		assert.Equal(t, cfg.LaneX(sq.Lane), sq.X)
		assert.Equal(t, PhaseSettleDelay, session.Phase)
	}

	_, ok := spawner.Spawn(&cfg, &session)
	assert.False(t, ok, "the budget is exhausted after exactly Total spawns")
	assert.Equal(t, 0, session.Remaining)
	assert.Equal(t, 10, session.Spawned)
}

func TestSpawnerIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	draw := func(seed uint64) []Square {
		session := newSession(Settings{Colors: 15, Speed: 1, Total: 50})
		session.reset()
		spawner := NewSpawner(seed)
		var out []Square
		for range 20 {
			sq, _ := spawner.Spawn(&cfg, &session)
			out = append(out, sq)
		}
		return out
	}

	assert.Equal(t, draw(11), draw(11))
	assert.NotEqual(t, draw(11), draw(12))
}

func TestResetDoesNotReseed(t *testing.T) {
	a := newTestGame(t)
	b := newTestGame(t)

	a.Start()
	b.Start()
	assert.Equal(t, a.Snapshot().Active, b.Snapshot().Active)

	var first []SquareState
	for range 8 {
		a.Start()
		first = append(first, a.Snapshot().Active)
	}
	unique := map[SquareState]bool{}
	for _, sq := range first {
		unique[sq] = true
	}
	assert.Greater(t, len(unique), 1, "every reset continues the random sequence")
}

// TestRandomPlayKeepsInvariants drives the game with random pointer and key
// input and checks the board after every tick.
func TestRandomPlayKeepsInvariants(t *testing.T) {
	g := newTestGame(t, WithSettings(Settings{Colors: 4, Speed: 10, Total: 50}))
	rng := rand.New(rand.NewPCG(1, 2))
	cfg := g.cfg

	g.Start()
	for range 5000 {
		snap := g.Snapshot()
		if snap.Phase == PhaseGameOver {
			g.Start()
			continue
		}

		switch rng.IntN(6) {
		case 0:
			g.Push(Input{Kind: InputKeyDown, Key: KeyLeft})
		case 1:
			g.Push(Input{Kind: InputKeyDown, Key: KeyRight})
		case 2:
			g.Push(Input{Kind: InputPointerDown, X: rng.Float64() * cfg.PlayfieldWidth, Y: rng.Float64() * cfg.PlayfieldHeight})
		case 3:
			g.Push(Input{Kind: InputPointerMove, X: rng.Float64() * cfg.PlayfieldWidth, Y: rng.Float64() * cfg.PlayfieldHeight})
		case 4:
			g.Push(Input{Kind: InputPointerUp})
		}

		before := len(snap.Resting)
		g.Step(tick)
		after := g.Snapshot()

		events := g.Events()
		var added, removed int
		for _, e := range events {
			switch e.Kind {
			case EventLanded, EventStacked:
				added++
			case EventMatched:
				removed++
			}
		}
		require.LessOrEqual(t, added+removed, 1, "at most one landing per tick")
		require.Equal(t, before+added-removed, len(after.Resting))

		if after.HasActive {
			require.GreaterOrEqual(t, after.Active.Lane, 0)
			require.Less(t, after.Active.Lane, cfg.Lanes)
			require.GreaterOrEqual(t, after.Active.X, 0.0)
			require.LessOrEqual(t, after.Active.X, cfg.PlayfieldWidth-cfg.SquareSize)
		}
		require.GreaterOrEqual(t, after.Remaining, 0)
		assertRestingInvariants(t, g)
	}
}
