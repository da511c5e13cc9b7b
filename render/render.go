// Package render turns a game snapshot into primitive draw calls. Frontends
// supply a Canvas for their output device.
package render

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/plus3/colorsquares/game"
)

// Canvas receives draw calls in window pixel coordinates. Text is positioned
// by its top-left corner.
type Canvas interface {
	FillRect(x, y, w, h float64, c color.RGBA)
	StrokeRect(x, y, w, h float64, c color.RGBA)
	Line(x1, y1, x2, y2 float64, c color.RGBA)
	Circle(cx, cy, r float64, c color.RGBA)
	Text(s string, x, y float64, c color.RGBA)
}

var (
	Background = color.RGBA{0, 0, 0, 255}
	Foreground = color.RGBA{255, 255, 255, 255}
	Grid       = color.RGBA{96, 96, 96, 255}
	Outline    = color.RGBA{0, 0, 0, 255}
)

// RGBA converts a palette entry.
func RGBA(c game.RGB) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 255}
}

// Draw paints one frame: playfield, squares and control panel.
func Draw(cv Canvas, cfg game.Config, snap game.Snapshot) {
	cv.FillRect(0, 0, cfg.Width(), cfg.Height(), Background)
	drawPlayfield(cv, cfg)

	for _, sq := range snap.Resting {
		drawSquare(cv, cfg, sq)
	}
	if snap.HasActive {
		drawSquare(cv, cfg, snap.Active)
		if snap.Settling() {
			half := cfg.SquareSize / 2
			cv.Circle(snap.Active.X+half, snap.Active.Y+half, cfg.SquareSize/6, Foreground)
		}
	}

	drawPanel(cv, cfg, snap)
}

func drawPlayfield(cv Canvas, cfg game.Config) {
	for lane := 1; lane < cfg.Lanes; lane++ {
		x := cfg.LaneX(lane)
		cv.Line(x, 0, x, cfg.PlayfieldHeight, Grid)
	}
	cv.StrokeRect(0, 0, cfg.PlayfieldWidth, cfg.PlayfieldHeight, Foreground)
}

func drawSquare(cv Canvas, cfg game.Config, sq game.SquareState) {
	cv.FillRect(sq.X, sq.Y, cfg.SquareSize, cfg.SquareSize, RGBA(cfg.RGB(sq.Color)))
	cv.StrokeRect(sq.X, sq.Y, cfg.SquareSize, cfg.SquareSize, Outline)
}

// ButtonLabel is the text shown on a panel button for the current settings.
func ButtonLabel(b game.Button, s game.Settings) string {
	switch b {
	case game.ButtonStart:
		return "Start"
	case game.ButtonStop:
		return "Stop"
	case game.ButtonColors:
		return fmt.Sprintf("C:%d", s.Colors)
	case game.ButtonSpeed:
		return fmt.Sprintf("V:%d", s.Speed)
	case game.ButtonSquares:
		return fmt.Sprintf("N:%d", s.Total)
	}
	return ""
}

// TimeLabel is the elapsed-time read-out, blank during the off half of the
// game-over blink.
func TimeLabel(snap game.Snapshot) string {
	if snap.Phase == game.PhaseGameOver && !snap.ShowTime {
		return ""
	}
	return strconv.Itoa(snap.Elapsed)
}

func drawPanel(cv Canvas, cfg game.Config, snap game.Snapshot) {
	panel := cfg.Panel()
	b := panel.Bounds
	cv.StrokeRect(b.X, b.Y, b.W, b.H, Foreground)

	for _, pb := range panel.Buttons {
		r := pb.Rect
		cv.StrokeRect(r.X, r.Y, r.W, r.H, Foreground)
		cv.Text(ButtonLabel(pb.Button, snap.Settings), r.X+3, r.Y+9, Foreground)
	}

	if label := TimeLabel(snap); label != "" {
		cv.Text(label, panel.Time.X+3, panel.Time.Y+9, Foreground)
	}
	cv.Text(strconv.Itoa(snap.Remaining), panel.Remaining.X+3, panel.Remaining.Y+9, Foreground)
}
