// Package snapshot renders game frames off-screen with gg, for headless runs
// and for attaching frames to bug reports.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/plus3/colorsquares/game"
	"github.com/plus3/colorsquares/render"
)

// Canvas is a render.Canvas backed by a gg context.
type Canvas struct {
	dc *gg.Context
}

// NewCanvas allocates a canvas sized for cfg's window.
func NewCanvas(cfg game.Config) *Canvas {
	dc := gg.NewContext(int(cfg.Width()), int(cfg.Height()))
	dc.SetLineWidth(1)
	return &Canvas{dc: dc}
}

func (c *Canvas) FillRect(x, y, w, h float64, clr color.RGBA) {
	c.dc.SetColor(clr)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *Canvas) StrokeRect(x, y, w, h float64, clr color.RGBA) {
	c.dc.SetColor(clr)
	c.dc.DrawRectangle(x+0.5, y+0.5, w-1, h-1)
	c.dc.Stroke()
}

func (c *Canvas) Line(x1, y1, x2, y2 float64, clr color.RGBA) {
	c.dc.SetColor(clr)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *Canvas) Circle(cx, cy, r float64, clr color.RGBA) {
	c.dc.SetColor(clr)
	c.dc.DrawCircle(cx, cy, r)
	c.dc.Fill()
}

func (c *Canvas) Text(s string, x, y float64, clr color.RGBA) {
	c.dc.SetColor(clr)
	c.dc.DrawStringAnchored(s, x, y, 0, 1)
}

// Image returns the current frame.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// SavePNG writes the current frame to path.
func (c *Canvas) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}

// Options configures a headless run.
type Options struct {
	Ticks      int
	FrameEvery int
	OutDir     string
	Autopilot  bool
}

// Run steps g for opts.Ticks fixed ticks, optionally driven by the autopilot,
// and writes every FrameEvery-th frame plus the last one into OutDir. It
// returns the paths written.
func Run(g *game.Game, opts Options) ([]string, error) {
	if opts.Ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", opts.Ticks)
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	cfg := g.Config()
	canvas := NewCanvas(cfg)
	var pilot *game.Autopilot
	if opts.Autopilot {
		pilot = game.NewAutopilot(cfg)
		pilot.Restart = true
	}

	var written []string
	save := func() error {
		if opts.OutDir == "" {
			return nil
		}
		render.Draw(canvas, cfg, g.Snapshot())
		path := filepath.Join(opts.OutDir, fmt.Sprintf("frame-%06d.png", g.Ticks()))
		if err := canvas.SavePNG(path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	const dt = 1.0 / 60.0
	for i := 1; i <= opts.Ticks; i++ {
		if pilot != nil {
			g.Push(pilot.Plan(g.Snapshot())...)
		}
		g.Step(dt)

		for _, e := range g.Events() {
			if e.Kind == game.EventGameOver {
				log.Printf("tick %d: game over (%s), elapsed %ds", e.Tick, e.Outcome, g.Session().Elapsed)
			}
		}

		if opts.FrameEvery > 0 && i%opts.FrameEvery == 0 && i != opts.Ticks {
			if err := save(); err != nil {
				return written, err
			}
		}
	}
	return written, save()
}
