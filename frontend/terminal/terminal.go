// Package terminal plays the game full-screen in a terminal through tcell.
// Each cell stands for CellWidth x CellHeight window pixels, so the board
// keeps its proportions and mouse drags map straight onto game inputs.
package terminal

import (
	"context"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/colorsquares/frontend"
	"github.com/plus3/colorsquares/game"
	"github.com/plus3/colorsquares/render"
	"golang.org/x/time/rate"
)

// DefaultFPS is the tick and redraw rate.
const DefaultFPS = 30

// Options configures a terminal session.
type Options struct {
	FPS int
}

// Frontend owns the screen side of a terminal session.
type Frontend struct {
	screen  tcell.Screen
	game    *game.Game
	canvas  *Canvas
	pointer frontend.PointerTracker
	fps     int
}

// New wraps an initialized screen. The caller owns the screen and calls
// Fini when done.
func New(screen tcell.Screen, g *game.Game, opts Options) *Frontend {
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	cfg := g.Config()
	return &Frontend{
		screen: screen,
		game:   g,
		canvas: NewCanvas(cfg.Width(), cfg.Height()),
		fps:    fps,
	}
}

// Open creates, initializes and returns the terminal screen with mouse
// reporting enabled.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.Clear()
	return screen, nil
}

// Run starts a session if none is running, then steps the game at the frame
// rate until the player quits or ctx ends.
func (f *Frontend) Run(ctx context.Context) error {
	f.game.Open()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	limiter := rate.NewLimiter(rate.Limit(f.fps), 1)
	dt := 1 / float64(f.fps)
	for {
		// Wait only fails once ctx is done or its deadline is too close.
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}

	drain:
		for {
			select {
			case ev := <-events:
				f.handle(ev)
			default:
				break drain
			}
		}

		f.game.Step(dt)
		for _, e := range f.game.Events() {
			if e.Kind == game.EventGameOver {
				log.Printf("game over (%s) after %ds", e.Outcome, f.game.Session().Elapsed)
			}
		}
		if f.game.QuitRequested() {
			return nil
		}
		f.Draw()
	}
}

// Draw renders the current state to the screen.
func (f *Frontend) Draw() {
	render.Draw(f.canvas, f.game.Config(), f.game.Snapshot())
	f.canvas.Flush(f.screen)
}

func (f *Frontend) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if in, ok := keyInput(ev); ok {
			f.game.Push(in)
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		x := (float64(col) + 0.5) * CellWidth
		y := (float64(row) + 0.5) * CellHeight
		f.game.Push(f.pointer.Sample(x, y, ev.Buttons()&tcell.Button1 != 0)...)
	case *tcell.EventResize:
		f.screen.Sync()
	}
}

var runeKeys = map[rune]game.Key{
	's': game.KeyStart,
	'x': game.KeyStop,
	'c': game.KeyColors,
	'v': game.KeySpeed,
	'n': game.KeySquares,
}

func keyInput(ev *tcell.EventKey) (game.Input, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return game.Input{Kind: game.InputKeyDown, Key: game.KeyLeft}, true
	case tcell.KeyRight:
		return game.Input{Kind: game.InputKeyDown, Key: game.KeyRight}, true
	case tcell.KeyEnter:
		return game.Input{Kind: game.InputKeyDown, Key: game.KeyStart}, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Input{Kind: game.InputQuit}, true
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return game.Input{Kind: game.InputQuit}, true
		}
		if key, ok := runeKeys[ev.Rune()]; ok {
			return game.Input{Kind: game.InputKeyDown, Key: key}, true
		}
	}
	return game.Input{}, false
}
