package game

import "github.com/plus3/colorsquares/ecs"

// land resolves the active square against its lane. Contact with the lane's
// top square is tested first; a lane with a stack always has its top at or
// above the floor, so for an empty lane this is the floor test alone. Testing
// the stack first also keeps a large step from sinking the square into the
// stack before the floor clamp would catch it. It reports false while the square is still falling freely.
func land(frame *ecs.UpdateFrame, cfg *Config, session *Session, log *EventLog, active activeSquare, lanes stacks) bool {
	sq := active.Square

	if top, ok := lanes.touches(cfg, sq.Lane, sq.Y); ok {
		if top.Color == sq.Color {
			frame.Commands.Delete(top.EntityId)
			frame.Commands.Delete(active.EntityId)
			log.squareEvent(frame, EventMatched, sq)
		} else {
			sq.Y = top.Y - cfg.SquareSize
			rest(frame, cfg, active)
			log.squareEvent(frame, EventStacked, sq)
		}
	} else if sq.Y+cfg.SquareSize >= cfg.PlayfieldHeight {
		sq.Y = cfg.FloorY()
		rest(frame, cfg, active)
		log.squareEvent(frame, EventLanded, sq)
	} else {
		return false
	}

	session.SpawnPending = true
	return true
}

// rest replaces the active entity with a resting one snapped to its lane.
func rest(frame *ecs.UpdateFrame, cfg *Config, active activeSquare) {
	sq := *active.Square
	sq.X = cfg.LaneX(sq.Lane)
	active.Square.X = sq.X

	frame.Commands.Delete(active.EntityId)
	frame.Commands.Spawn(sq, Resting{})
}

// LandingSystem resolves floor and stack contact after gravity moved the
// active square.
type LandingSystem struct {
	Active  ecs.Query[activeSquare]
	Resting ecs.Query[restingSquare]
	Session ecs.Singleton[Session]
	Config  ecs.Singleton[Config]
	Log     ecs.Singleton[EventLog]
}

func (s *LandingSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Phase != PhasePlaying {
		return
	}

	active, ok := s.Active.First()
	if !ok {
		return
	}

	cfg := s.Config.Get()
	land(frame, cfg, session, s.Log.Get(), active, buildStacks(cfg.Lanes, s.Resting.Iter()))
}
