package game

// Autopilot plays the game through the same inputs a player would send. It
// steers the active square toward a lane whose top matches its color, or the
// lowest lane otherwise, then fast-drops it with a downward drag.
type Autopilot struct {
	cfg Config

	// Restart presses Start whenever the session is not running.
	Restart bool
}

// NewAutopilot returns an autopilot for games built from cfg.
func NewAutopilot(cfg Config) *Autopilot {
	return &Autopilot{cfg: cfg}
}

// Plan returns the inputs for the next tick.
func (a *Autopilot) Plan(snap Snapshot) []Input {
	switch snap.Phase {
	case PhaseIdle, PhaseStopped, PhaseGameOver:
		if a.Restart {
			return []Input{{Kind: InputKeyDown, Key: KeyStart}}
		}
		return nil
	case PhaseSettleDelay:
		return nil
	}
	if !snap.HasActive {
		return nil
	}

	sq := snap.Active
	target := a.TargetLane(snap)
	switch {
	case target < sq.Lane:
		return []Input{{Kind: InputKeyDown, Key: KeyLeft}}
	case target > sq.Lane:
		return []Input{{Kind: InputKeyDown, Key: KeyRight}}
	}

	half := a.cfg.SquareSize / 2
	cx, cy := sq.X+half, sq.Y+half
	return []Input{
		{Kind: InputPointerDown, X: cx, Y: cy},
		{Kind: InputPointerMove, X: cx, Y: cy + 2*a.cfg.FastDropStep},
		{Kind: InputPointerUp, X: cx, Y: cy + 2*a.cfg.FastDropStep},
	}
}

// TargetLane picks where the active square should go.
func (a *Autopilot) TargetLane(snap Snapshot) int {
	best, bestHeight := snap.Active.Lane, -1
	for lane := range a.cfg.Lanes {
		if top, ok := snap.LaneTop(lane); ok && top.Color == snap.Active.Color {
			return lane
		}
		if h := snap.LaneHeight(lane); bestHeight < 0 || h < bestHeight {
			best, bestHeight = lane, h
		}
	}
	return best
}
