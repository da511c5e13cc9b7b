// Package desktop plays the game in an ebiten window, with an optional
// Dear ImGui overlay for inspecting the ECS world.
package desktop

import (
	"log"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/colorsquares/ecs"
	"github.com/plus3/colorsquares/ecs/debugui"
	debugui_ebiten "github.com/plus3/colorsquares/ecs/debugui/ebiten"
	"github.com/plus3/colorsquares/frontend"
	"github.com/plus3/colorsquares/game"
	"github.com/plus3/colorsquares/render"
)

const (
	tps = 60
	// debugWidth is the extra window width reserved for the overlay.
	debugWidth = 320
)

// Options configures the desktop frontend.
type Options struct {
	Title string
	Debug bool
}

// App implements ebiten.Game.
type App struct {
	game    *game.Game
	cfg     game.Config
	pointer frontend.PointerTracker
	debug   bool

	backend *ecs.Singleton[debugui_ebiten.ImguiBackend]
	capture *ecs.Singleton[debugui.ImguiInputState]
	panel   *sessionPanel
}

// New builds the game and, in debug mode, the ImGui backend and windows.
// gameOpts are passed through to game.New.
func New(cfg game.Config, opts Options, gameOpts ...game.Option) (*App, error) {
	if opts.Title == "" {
		opts.Title = "Color Squares"
	}
	width, height := int(cfg.Width()), int(cfg.Height())

	if opts.Debug {
		gameOpts = append(gameOpts,
			game.WithComponents(func(r *ecs.ComponentRegistry) {
				ecs.RegisterComponent[debugui.ImguiItem](r)
				ecs.RegisterComponent[debugui.ImguiInputState](r)
				ecs.RegisterComponent[debugui_ebiten.ImguiBackend](r)
			}),
			game.WithSystems(&debugui.ImguiSystem{}),
		)
	}

	g, err := game.New(cfg, gameOpts...)
	if err != nil {
		return nil, err
	}

	app := &App{game: g, cfg: cfg, debug: opts.Debug}
	if opts.Debug {
		width += debugWidth
		storage := g.Storage()
		app.backend = ecs.NewSingleton(storage, debugui_ebiten.NewImguiBackend(opts.Title, width, height))
		app.capture = ecs.NewSingleton[debugui.ImguiInputState](storage)
		app.panel = newSessionPanel(g)

		perf := debugui.NewPerformanceWindow(storage, g.Scheduler(), 120)
		perf.Pos = imgui.NewVec2(float32(cfg.Width())+10, 10)
		storage.Spawn(perf.Item())
		storage.Spawn(debugui.ImguiItem{Render: app.panel.Render})
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetTPS(tps)
	return app, nil
}

// Scheduler exposes the game's system pipeline.
func (a *App) Scheduler() *ecs.Scheduler {
	return a.game.Scheduler()
}

// Run starts a session, opens the window and blocks until it closes.
func (a *App) Run() error {
	a.game.Open()
	log.Printf("desktop: %s", a.game)
	return ebiten.RunGame(a)
}

func (a *App) Update() error {
	if a.debug {
		a.backend.Get().BeginFrame()
	}

	var capture debugui.ImguiInputState
	if a.capture != nil {
		capture = *a.capture.Get()
	}
	if !capture.WantCaptureKeyboard {
		a.game.Push(keyInputs(inpututil.IsKeyJustPressed)...)
	}
	if !capture.WantCaptureMouse || a.pointer.Down() {
		x, y := ebiten.CursorPosition()
		pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
		a.game.Push(a.pointer.Sample(float64(x), float64(y), pressed)...)
	}

	a.game.Step(1.0 / tps)
	events := a.game.Events()
	if a.panel != nil {
		a.panel.observe(events)
	}
	for _, e := range events {
		if e.Kind == game.EventGameOver {
			log.Printf("game over (%s) after %ds", e.Outcome, a.game.Session().Elapsed)
		}
	}

	if a.debug {
		a.backend.Get().EndFrame()
	}
	if a.game.QuitRequested() {
		return ebiten.Termination
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	render.Draw(Canvas{dst: screen}, a.cfg, a.game.Snapshot())
	if a.debug {
		a.backend.Get().Draw(screen)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if a.debug {
		a.backend.Get().Layout(outsideWidth, outsideHeight)
		return outsideWidth, outsideHeight
	}
	return int(a.cfg.Width()), int(a.cfg.Height())
}

var keyMap = []struct {
	keys []ebiten.Key
	in   game.Input
}{
	{[]ebiten.Key{ebiten.KeyArrowLeft}, game.Input{Kind: game.InputKeyDown, Key: game.KeyLeft}},
	{[]ebiten.Key{ebiten.KeyArrowRight}, game.Input{Kind: game.InputKeyDown, Key: game.KeyRight}},
	{[]ebiten.Key{ebiten.KeyS, ebiten.KeyEnter}, game.Input{Kind: game.InputKeyDown, Key: game.KeyStart}},
	{[]ebiten.Key{ebiten.KeyX}, game.Input{Kind: game.InputKeyDown, Key: game.KeyStop}},
	{[]ebiten.Key{ebiten.KeyC}, game.Input{Kind: game.InputKeyDown, Key: game.KeyColors}},
	{[]ebiten.Key{ebiten.KeyV}, game.Input{Kind: game.InputKeyDown, Key: game.KeySpeed}},
	{[]ebiten.Key{ebiten.KeyN}, game.Input{Kind: game.InputKeyDown, Key: game.KeySquares}},
	{[]ebiten.Key{ebiten.KeyQ, ebiten.KeyEscape}, game.Input{Kind: game.InputQuit}},
}

// keyInputs maps the keys pressed this frame to game inputs.
func keyInputs(justPressed func(ebiten.Key) bool) []game.Input {
	var out []game.Input
	for _, m := range keyMap {
		for _, k := range m.keys {
			if justPressed(k) {
				out = append(out, m.in)
				break
			}
		}
	}
	return out
}
