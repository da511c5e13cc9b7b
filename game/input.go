package game

import (
	"math"

	"github.com/plus3/colorsquares/ecs"
)

// InputKind is the type of a device event.
type InputKind uint8

const (
	InputQuit InputKind = iota
	InputPointerDown
	InputPointerUp
	InputPointerMove
	InputKeyDown
)

// Key is a logical key. Frontends map device keys onto these.
type Key uint8

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyStart
	KeyStop
	KeyColors
	KeySpeed
	KeySquares
)

var keyButtons = map[Key]Button{
	KeyStart:   ButtonStart,
	KeyStop:    ButtonStop,
	KeyColors:  ButtonColors,
	KeySpeed:   ButtonSpeed,
	KeySquares: ButtonSquares,
}

// Input is one device event in window pixel coordinates.
type Input struct {
	Kind InputKind
	X, Y float64
	Key  Key
}

// InputQueue is the singleton the frontend fills between ticks.
type InputQueue struct {
	Pending []Input
	Quit    bool
}

// Pointer is the drag state. Target follows the dragged entity and becomes
// invalid as soon as that square leaves play.
type Pointer struct {
	Target  *ecs.EntityRef
	OffsetX float64
	LastX   float64
	LastY   float64
}

// Dragging reports whether a drag is in progress.
func (p *Pointer) Dragging() bool {
	return p.Target.Valid()
}

func (p *Pointer) release() {
	*p = Pointer{}
}

type anySquare struct {
	ecs.EntityId
	*Square
}

// InputSystem drains the input queue at the start of the tick.
type InputSystem struct {
	Active  ecs.Query[activeSquare]
	Resting ecs.Query[restingSquare]
	Squares ecs.Query[anySquare]
	Session ecs.Singleton[Session]
	Config  ecs.Singleton[Config]
	Queue   ecs.Singleton[InputQueue]
	Pointer ecs.Singleton[Pointer]
	Log     ecs.Singleton[EventLog]
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	queue := s.Queue.Get()
	if len(queue.Pending) == 0 {
		return
	}

	cfg := s.Config.Get()
	h := inputHandler{
		system:  s,
		frame:   frame,
		cfg:     cfg,
		panel:   cfg.Panel(),
		session: s.Session.Get(),
		pointer: s.Pointer.Get(),
		log:     s.Log.Get(),
		queue:   queue,
	}
	h.active, h.hasActive = s.Active.First()
	h.lanes = buildStacks(cfg.Lanes, s.Resting.Iter())

	for _, in := range queue.Pending {
		h.handle(in)
	}
	queue.Pending = queue.Pending[:0]
}

type inputHandler struct {
	system  *InputSystem
	frame   *ecs.UpdateFrame
	cfg     *Config
	panel   Panel
	session *Session
	pointer *Pointer
	log     *EventLog
	queue   *InputQueue

	active    activeSquare
	hasActive bool
	lanes     stacks
}

func (h *inputHandler) handle(in Input) {
	switch in.Kind {
	case InputQuit:
		h.queue.Quit = true
	case InputKeyDown:
		h.key(in.Key)
	case InputPointerDown:
		h.pointerDown(in.X, in.Y)
	case InputPointerMove:
		h.pointerMove(in.X, in.Y)
	case InputPointerUp:
		h.pointerUp()
	}
}

// steerable is the gate for everything that moves the active square.
func (h *inputHandler) steerable() bool {
	return h.hasActive && h.session.Phase == PhasePlaying
}

func (h *inputHandler) key(k Key) {
	switch k {
	case KeyLeft:
		h.shift(-1)
	case KeyRight:
		h.shift(1)
	default:
		if b, ok := keyButtons[k]; ok {
			h.press(b)
		}
	}
}

func (h *inputHandler) shift(delta int) {
	if !h.steerable() {
		return
	}
	sq := h.active.Square
	lane := h.cfg.ClampLane(sq.Lane + delta)
	if lane == sq.Lane {
		return
	}
	sq.Lane = lane
	sq.X = h.cfg.LaneX(lane)
	h.log.squareEvent(h.frame, EventShifted, sq)
}

func (h *inputHandler) pointerDown(x, y float64) {
	if h.panel.Bounds.Contains(x, y) {
		if b := h.panel.ButtonAt(x, y); b != ButtonNone {
			h.press(b)
		}
		return
	}
	if !h.cfg.InPlayfield(x, y) || !h.steerable() {
		return
	}

	sq := h.active.Square
	footprint := Rect{X: sq.X, Y: sq.Y, W: h.cfg.SquareSize, H: h.cfg.SquareSize}
	switch {
	case footprint.Contains(x, y):
		*h.pointer = Pointer{
			Target:  h.frame.Storage.CreateEntityRef(h.active.EntityId),
			OffsetX: x - sq.X,
			LastX:   x,
			LastY:   y,
		}
	case x < sq.X:
		h.shift(-1)
	case x >= sq.X+h.cfg.SquareSize:
		h.shift(1)
	}
}

func (h *inputHandler) pointerMove(x, y float64) {
	if !h.pointer.Dragging() {
		return
	}
	if !h.steerable() || h.pointer.Target.Id != h.active.EntityId {
		h.pointer.release()
		return
	}

	dx, dy := x-h.pointer.LastX, y-h.pointer.LastY
	h.pointer.LastX, h.pointer.LastY = x, y

	switch {
	case math.Abs(dx) > math.Abs(dy):
		h.dragTo(x)
	case dy > 0:
		h.fastDrop()
	}
}

func (h *inputHandler) dragTo(x float64) {
	sq := h.active.Square
	nx := h.cfg.ClampX(x - h.pointer.OffsetX)
	lane := h.cfg.NearestLane(nx)

	if _, touching := h.lanes.touches(h.cfg, lane, sq.Y); !touching {
		prev := sq.Lane
		sq.X, sq.Lane = nx, lane
		if lane != prev {
			h.log.squareEvent(h.frame, EventShifted, sq)
		}
		return
	}

	sq.Lane = lane
	h.resolve()
}

func (h *inputHandler) fastDrop() {
	sq := h.active.Square
	sq.Y += h.cfg.FastDropStep
	h.log.squareEvent(h.frame, EventFastDrop, sq)
	h.resolve()
}

func (h *inputHandler) resolve() {
	if land(h.frame, h.cfg, h.session, h.log, h.active, h.lanes) {
		h.pointer.release()
		h.hasActive = false
	}
}

func (h *inputHandler) pointerUp() {
	if !h.pointer.Dragging() {
		return
	}
	h.pointer.release()

	if !h.hasActive {
		return
	}
	sq := h.active.Square
	sq.Lane = h.cfg.NearestLane(sq.X)
	sq.X = h.cfg.LaneX(sq.Lane)
}

// press applies a control-panel action. Panel actions are accepted in every
// phase.
func (h *inputHandler) press(b Button) {
	switch b {
	case ButtonStart:
		h.clear()
		h.session.reset()
		h.log.emit(h.frame, Event{Kind: EventReset})

	case ButtonStop:
		h.clear()
		wasStopped := h.session.Phase == PhaseStopped
		h.session.stop()
		if !wasStopped {
			h.log.emit(h.frame, Event{Kind: EventStopped})
		}

	case ButtonColors:
		h.session.Settings = h.session.Settings.NextColors()
		h.log.emit(h.frame, Event{Kind: EventSettingsChanged})

	case ButtonSpeed:
		h.session.Settings = h.session.Settings.NextSpeed()
		h.log.emit(h.frame, Event{Kind: EventSettingsChanged})

	case ButtonSquares:
		h.session.Settings = h.session.Settings.NextTotal()
		if !h.session.Active() {
			h.session.Remaining = h.session.Settings.Total
		}
		h.log.emit(h.frame, Event{Kind: EventSettingsChanged})
	}
}

// clear queues every square for deletion and drops the drag. A landing
// earlier in the same batch may already have queued a resting spawn, so a
// deferred sweep removes whatever squares exist once the buffer is applied.
func (h *inputHandler) clear() {
	for sq := range h.system.Squares.Iter() {
		h.frame.Commands.Delete(sq.EntityId)
	}
	squares, storage := &h.system.Squares, h.frame.Storage
	h.frame.Commands.Defer(func() {
		squares.Execute()
		for sq := range squares.Iter() {
			storage.Delete(sq.EntityId)
		}
	})
	h.pointer.release()
	h.hasActive = false
	h.lanes = make(stacks, h.cfg.Lanes)
}
