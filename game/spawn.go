package game

import (
	"math/rand/v2"

	"github.com/plus3/colorsquares/ecs"
)

// Spawner draws new squares from the session's budget. Its random source is
// seeded once and never reseeded by resets.
type Spawner struct {
	rng *rand.Rand
}

// NewSpawner returns a spawner with a deterministic PCG source.
func NewSpawner(seed uint64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Spawn produces the next square, or false once the budget is used up. A
// successful spawn starts a fresh settle delay.
func (sp *Spawner) Spawn(cfg *Config, session *Session) (Square, bool) {
	if session.Remaining <= 0 {
		return Square{}, false
	}

	colors := min(session.Settings.Colors, len(cfg.Palette))
	lane := sp.rng.IntN(cfg.Lanes)
	sq := Square{
		Lane:  lane,
		X:     cfg.LaneX(lane),
		Y:     0,
		Color: Color(sp.rng.IntN(colors)),
	}

	session.Remaining--
	session.Spawned++
	session.Phase = PhaseSettleDelay
	session.Settle = 0
	return sq, true
}

// SpawnSystem creates the next active square when one was requested.
type SpawnSystem struct {
	Active  ecs.Query[activeSquare]
	Session ecs.Singleton[Session]
	Config  ecs.Singleton[Config]
	Log     ecs.Singleton[EventLog]

	Spawner *Spawner
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if !session.SpawnPending {
		return
	}
	session.SpawnPending = false

	if !session.Active() || s.Active.Len() > 0 {
		return
	}

	sq, ok := s.Spawner.Spawn(s.Config.Get(), session)
	if !ok {
		return
	}
	frame.Commands.Spawn(sq, Active{})
	s.Log.Get().squareEvent(frame, EventSpawned, &sq)
}
