package game

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidSettings is wrapped by every Settings validation failure.
var ErrInvalidSettings = errors.New("invalid game settings")

// Menus cycled by the control panel.
var (
	ColorChoices = []int{4, 5, 7, 10, 15}
	TotalChoices = []int{10, 20, 30, 40, 50}
)

const (
	MinSpeed = 1
	MaxSpeed = 10
)

// Phase is the state of the session state machine.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSettleDelay
	PhasePlaying
	PhaseGameOver
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSettleDelay:
		return "settling"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	case PhaseStopped:
		return "stopped"
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// Outcome records why a session reached PhaseGameOver.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	// OutcomeCleared: the budget ran out and the board is empty.
	OutcomeCleared
	// OutcomeExhausted: the budget ran out with squares left on the board.
	OutcomeExhausted
	// OutcomeOverflow: one lane reached the overflow height.
	OutcomeOverflow
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeCleared:
		return "cleared"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeOverflow:
		return "overflow"
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// Settings are the player-adjustable values shown on the control panel.
type Settings struct {
	Colors int
	Speed  int
	Total  int
}

// DefaultSettings returns 4 colors, speed 1 and 10 squares.
func DefaultSettings() Settings {
	return Settings{Colors: 4, Speed: 1, Total: 10}
}

// Validate checks every value against its menu.
func (s Settings) Validate() error {
	if !slices.Contains(ColorChoices, s.Colors) {
		return fmt.Errorf("colors %d not in %v: %w", s.Colors, ColorChoices, ErrInvalidSettings)
	}
	if s.Speed < MinSpeed || s.Speed > MaxSpeed {
		return fmt.Errorf("speed %d not in [%d, %d]: %w", s.Speed, MinSpeed, MaxSpeed, ErrInvalidSettings)
	}
	if !slices.Contains(TotalChoices, s.Total) {
		return fmt.Errorf("squares %d not in %v: %w", s.Total, TotalChoices, ErrInvalidSettings)
	}
	return nil
}

func nextChoice(choices []int, current int) int {
	i := slices.Index(choices, current)
	return choices[(i+1)%len(choices)]
}

// NextColors advances the color-count menu, wrapping around.
func (s Settings) NextColors() Settings {
	s.Colors = nextChoice(ColorChoices, s.Colors)
	return s
}

// NextSpeed advances the speed level, wrapping from MaxSpeed to MinSpeed.
func (s Settings) NextSpeed() Settings {
	s.Speed = s.Speed%MaxSpeed + MinSpeed
	return s
}

// NextTotal advances the squares-per-session menu, wrapping around.
func (s Settings) NextTotal() Settings {
	s.Total = nextChoice(TotalChoices, s.Total)
	return s
}

// Session is the singleton holding the state machine and its timers. All
// timers are accumulators advanced by the tick's delta time.
type Session struct {
	Phase    Phase
	Outcome  Outcome
	Settings Settings

	// Remaining is the spawn budget left in this session.
	Remaining int
	Spawned   int

	// Running is set from Start until Stop or game over.
	Running bool
	Clock   float64
	Elapsed int

	Settle   float64
	Blink    float64
	ShowTime bool

	// SpawnPending asks the spawner for the next square.
	SpawnPending bool
}

func newSession(settings Settings) Session {
	return Session{
		Phase:     PhaseIdle,
		Settings:  settings,
		Remaining: settings.Total,
		ShowTime:  true,
	}
}

// Active reports whether a session is in progress and accepts gameplay.
func (s *Session) Active() bool {
	return s.Phase == PhaseSettleDelay || s.Phase == PhasePlaying
}

func (s *Session) reset() {
	s.Phase = PhasePlaying
	s.Outcome = OutcomeNone
	s.Remaining = s.Settings.Total
	s.Spawned = 0
	s.Running = true
	s.Clock = 0
	s.Elapsed = 0
	s.Settle = 0
	s.Blink = 0
	s.ShowTime = true
	s.SpawnPending = true
}

func (s *Session) stop() {
	s.Phase = PhaseStopped
	s.Outcome = OutcomeNone
	s.Remaining = s.Settings.Total
	s.Spawned = 0
	s.Running = false
	s.Clock = 0
	s.Elapsed = 0
	s.Settle = 0
	s.Blink = 0
	s.ShowTime = true
	s.SpawnPending = false
}

func (s *Session) end(outcome Outcome) {
	s.Phase = PhaseGameOver
	s.Outcome = outcome
	s.Running = false
	s.SpawnPending = false
	s.Blink = 0
	s.ShowTime = true
}
