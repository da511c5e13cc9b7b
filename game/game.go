package game

import (
	"fmt"

	"github.com/plus3/colorsquares/ecs"
)

type options struct {
	seed       uint64
	settings   Settings
	systems    []ecs.System
	components []func(*ecs.ComponentRegistry)
}

// Option customizes New.
type Option func(*options)

// WithSeed fixes the spawner's random source.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithSettings sets the initial panel values.
func WithSettings(s Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithSystems appends systems that run after the game's own systems on
// every tick, such as metrics or a debug overlay.
func WithSystems(systems ...ecs.System) Option {
	return func(o *options) { o.systems = append(o.systems, systems...) }
}

// WithComponents registers extra component types used by added systems.
func WithComponents(register func(*ecs.ComponentRegistry)) Option {
	return func(o *options) { o.components = append(o.components, register) }
}

// Game owns the storage and the system pipeline of one session. It is not
// safe for concurrent use.
type Game struct {
	cfg       Config
	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	session *ecs.Singleton[Session]
	queue   *ecs.Singleton[InputQueue]
	pointer *ecs.Singleton[Pointer]
	log     *ecs.Singleton[EventLog]

	active  *ecs.View[activeSquare]
	resting *ecs.View[restingSquare]
	ticks   uint64
}

// New validates cfg and the settings and builds an idle game.
func New(cfg Config, opts ...Option) (*Game, error) {
	o := options{seed: 1, settings: DefaultSettings()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := o.settings.Validate(); err != nil {
		return nil, err
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	for _, register := range o.components {
		register(registry)
	}
	storage := ecs.NewStorage(registry)

	storage.AddSingleton(cfg)
	g := &Game{
		cfg:     cfg,
		storage: storage,
		session: ecs.NewSingleton(storage, newSession(o.settings)),
		queue:   ecs.NewSingleton[InputQueue](storage),
		pointer: ecs.NewSingleton[Pointer](storage),
		log:     ecs.NewSingleton[EventLog](storage),
		active:  ecs.NewView[activeSquare](storage),
		resting: ecs.NewView[restingSquare](storage),
	}

	g.scheduler = ecs.NewScheduler(storage)
	g.scheduler.Register(&InputSystem{})
	g.scheduler.Register(&FallSystem{})
	g.scheduler.Register(&LandingSystem{})
	g.scheduler.Register(&SpawnSystem{Spawner: NewSpawner(o.seed)})
	g.scheduler.Register(&RulesSystem{})
	for _, system := range o.systems {
		g.scheduler.Register(system)
	}

	return g, nil
}

// Push queues an input for the next Step.
func (g *Game) Push(inputs ...Input) {
	q := g.queue.Get()
	q.Pending = append(q.Pending, inputs...)
}

// Step advances the simulation by dt seconds.
func (g *Game) Step(dt float64) {
	g.ticks++
	g.log.Get().Events = g.log.Get().Events[:0]
	g.scheduler.Once(dt)
}

// Start resets the session and spawns the first square immediately.
func (g *Game) Start() {
	g.Push(Input{Kind: InputKeyDown, Key: KeyStart})
	g.Step(0)
}

// Open starts the first session when a frontend opens. A game that already
// left Idle is left alone.
func (g *Game) Open() {
	if g.session.Get().Phase == PhaseIdle {
		g.Start()
	}
}

// Stop aborts the session. Stopping a stopped game changes nothing.
func (g *Game) Stop() {
	g.Push(Input{Kind: InputKeyDown, Key: KeyStop})
	g.Step(0)
}

// Events returns a copy of the events produced by the last Step.
func (g *Game) Events() []Event {
	return append([]Event(nil), g.log.Get().Events...)
}

// QuitRequested reports whether a quit input has been seen.
func (g *Game) QuitRequested() bool {
	return g.queue.Get().Quit
}

// Session returns a copy of the session state.
func (g *Game) Session() Session {
	return *g.session.Get()
}

// Config returns the game's configuration.
func (g *Game) Config() Config {
	return g.cfg
}

// Storage exposes the ECS world for debug tooling.
func (g *Game) Storage() *ecs.Storage {
	return g.storage
}

// Scheduler exposes the system pipeline for debug tooling.
func (g *Game) Scheduler() *ecs.Scheduler {
	return g.scheduler
}

// Ticks returns the number of Steps taken.
func (g *Game) Ticks() uint64 {
	return g.ticks
}

// Snapshot copies the current state for drawing.
func (g *Game) Snapshot() Snapshot {
	session := g.session.Get()
	snap := Snapshot{
		Tick:      g.ticks,
		Phase:     session.Phase,
		Outcome:   session.Outcome,
		Settings:  session.Settings,
		Remaining: session.Remaining,
		Elapsed:   session.Elapsed,
		ShowTime:  session.ShowTime,
		Dragging:  g.pointer.Get().Dragging(),
	}

	for _, sq := range g.active.Iter() {
		snap.Active = stateOf(sq.Square)
		snap.HasActive = true
	}
	for _, sq := range g.resting.Iter() {
		snap.Resting = append(snap.Resting, stateOf(sq.Square))
	}
	sortResting(snap.Resting)
	return snap
}

func (g *Game) String() string {
	s := g.session.Get()
	return fmt.Sprintf("phase=%s remaining=%d elapsed=%ds settings=%+v", s.Phase, s.Remaining, s.Elapsed, s.Settings)
}
