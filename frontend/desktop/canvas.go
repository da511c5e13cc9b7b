package desktop

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Canvas draws onto an ebiten image with the vector package.
type Canvas struct {
	dst *ebiten.Image
}

func (c Canvas) FillRect(x, y, w, h float64, clr color.RGBA) {
	vector.DrawFilledRect(c.dst, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func (c Canvas) StrokeRect(x, y, w, h float64, clr color.RGBA) {
	vector.StrokeRect(c.dst, float32(x)+0.5, float32(y)+0.5, float32(w)-1, float32(h)-1, 1, clr, false)
}

func (c Canvas) Line(x1, y1, x2, y2 float64, clr color.RGBA) {
	vector.StrokeLine(c.dst, float32(x1), float32(y1), float32(x2), float32(y2), 1, clr, false)
}

func (c Canvas) Circle(cx, cy, r float64, clr color.RGBA) {
	vector.DrawFilledCircle(c.dst, float32(cx), float32(cy), float32(r), clr, true)
}

// Text uses ebiten's debug font, which is always white.
func (c Canvas) Text(s string, x, y float64, _ color.RGBA) {
	ebitenutil.DebugPrintAt(c.dst, s, int(x), int(y)-4)
}
