package game

import (
	"fmt"

	"github.com/plus3/colorsquares/ecs"
)

// EventKind identifies what happened during a tick.
type EventKind uint8

const (
	EventSpawned EventKind = iota
	EventShifted
	EventLanded
	EventStacked
	EventMatched
	EventFastDrop
	EventGameOver
	EventReset
	EventStopped
	EventSettingsChanged
)

var eventNames = [...]string{
	EventSpawned:         "spawned",
	EventShifted:         "shifted",
	EventLanded:          "landed",
	EventStacked:         "stacked",
	EventMatched:         "matched",
	EventFastDrop:        "fast_drop",
	EventGameOver:        "game_over",
	EventReset:           "reset",
	EventStopped:         "stopped",
	EventSettingsChanged: "settings_changed",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Event is one observable state change. Lane and Color describe the square
// involved, when there is one.
type Event struct {
	Kind    EventKind
	Tick    uint64
	Lane    int
	Color   Color
	Outcome Outcome
}

// EventLog is the singleton collecting the current tick's events. Game.Step
// clears it before running the systems.
type EventLog struct {
	Events []Event
}

func (l *EventLog) emit(frame *ecs.UpdateFrame, e Event) {
	e.Tick = frame.Tick
	l.Events = append(l.Events, e)
}

func (l *EventLog) squareEvent(frame *ecs.UpdateFrame, kind EventKind, sq *Square) {
	l.emit(frame, Event{Kind: kind, Lane: sq.Lane, Color: sq.Color})
}

// Count returns how many events of kind were logged.
func (l *EventLog) Count(kind EventKind) int {
	n := 0
	for _, e := range l.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
