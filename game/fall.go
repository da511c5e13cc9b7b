package game

import "github.com/plus3/colorsquares/ecs"

// Accumulated timers compare with this slack so that N steps of 1/N seconds
// reach a whole second.
const timerEpsilon = 1e-9

// FallSystem advances the timers of the current phase and applies gravity to
// the active square. In game over it only toggles the blink flag.
type FallSystem struct {
	Active  ecs.Query[activeSquare]
	Session ecs.Singleton[Session]
	Config  ecs.Singleton[Config]
}

func (s *FallSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	cfg := s.Config.Get()

	switch session.Phase {
	case PhaseGameOver:
		session.Blink += frame.DeltaTime
		for session.Blink+timerEpsilon >= cfg.BlinkInterval {
			session.Blink -= cfg.BlinkInterval
			session.ShowTime = !session.ShowTime
		}

	case PhaseSettleDelay:
		session.Settle += frame.DeltaTime
		if session.Settle+timerEpsilon >= cfg.SettleDelay {
			session.Phase = PhasePlaying
		}

	case PhasePlaying:
		if active, ok := s.Active.First(); ok {
			active.Y += cfg.FallRate(session.Settings.Speed) * frame.DeltaTime
		}
	}
}
