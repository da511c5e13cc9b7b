package game

import (
	"math"

	"github.com/plus3/colorsquares/ecs"
)

// RulesSystem runs the terminal checks after all movement of the tick and
// keeps the session clock.
type RulesSystem struct {
	Active  ecs.Query[activeSquare]
	Resting ecs.Query[restingSquare]
	Session ecs.Singleton[Session]
	Config  ecs.Singleton[Config]
	Log     ecs.Singleton[EventLog]
}

func (s *RulesSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if !session.Active() {
		return
	}

	cfg := s.Config.Get()
	lanes := buildStacks(cfg.Lanes, s.Resting.Iter())

	switch {
	case lanes.tallest() >= cfg.OverflowHeight:
		s.end(frame, session, OutcomeOverflow)
		return
	case s.Active.Len() == 0 && session.Remaining <= 0 && !session.SpawnPending:
		if lanes.total() == 0 {
			s.end(frame, session, OutcomeCleared)
		} else {
			s.end(frame, session, OutcomeExhausted)
		}
		return
	}

	if session.Running {
		session.Clock += frame.DeltaTime
		session.Elapsed = int(math.Floor(session.Clock + timerEpsilon))
	}
}

func (s *RulesSystem) end(frame *ecs.UpdateFrame, session *Session, outcome Outcome) {
	session.end(outcome)
	s.Log.Get().emit(frame, Event{Kind: EventGameOver, Outcome: outcome})
}
