package terminal

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

// Cell size in window pixels. A 300x600 window becomes 30x30 cells.
const (
	CellWidth  = 10
	CellHeight = 20
)

type cell struct {
	r  rune
	fg tcell.Color
	bg tcell.Color
}

// Canvas rasterizes draw calls onto a grid of terminal cells.
type Canvas struct {
	cols, rows int
	cells      []cell
}

// NewCanvas allocates a canvas covering a w by h pixel window.
func NewCanvas(w, h float64) *Canvas {
	cols := int(math.Ceil(w / CellWidth))
	rows := int(math.Ceil(h / CellHeight))
	return &Canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

func tcellColor(clr color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(clr.R), int32(clr.G), int32(clr.B))
}

func (c *Canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

// span returns the cells whose centers lie inside [x, x+w) x [y, y+h).
func span(x, y, w, h float64) (c0, r0, c1, r1 int) {
	c0 = int(math.Ceil(x/CellWidth - 0.5))
	r0 = int(math.Ceil(y/CellHeight - 0.5))
	c1 = int(math.Ceil((x+w)/CellWidth-0.5)) - 1
	r1 = int(math.Ceil((y+h)/CellHeight-0.5)) - 1
	return
}

func (c *Canvas) FillRect(x, y, w, h float64, clr color.RGBA) {
	bg := tcellColor(clr)
	c0, r0, c1, r1 := span(x, y, w, h)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if cl := c.at(col, row); cl != nil {
				*cl = cell{r: ' ', fg: bg, bg: bg}
			}
		}
	}
}

func (c *Canvas) StrokeRect(x, y, w, h float64, clr color.RGBA) {
	fg := tcellColor(clr)
	c0, r0, c1, r1 := span(x, y, w, h)
	if c1-c0 < 1 || r1-r0 < 1 {
		return
	}
	for col := c0; col <= c1; col++ {
		c.glyph(col, r0, '─', fg)
		c.glyph(col, r1, '─', fg)
	}
	for row := r0; row <= r1; row++ {
		c.glyph(c0, row, '│', fg)
		c.glyph(c1, row, '│', fg)
	}
	c.glyph(c0, r0, '┌', fg)
	c.glyph(c1, r0, '┐', fg)
	c.glyph(c0, r1, '└', fg)
	c.glyph(c1, r1, '┘', fg)
}

// Line draws axis-aligned lines only; diagonals are never drawn by the board.
func (c *Canvas) Line(x1, y1, x2, y2 float64, clr color.RGBA) {
	fg := tcellColor(clr)
	switch {
	case x1 == x2:
		col := int(x1 / CellWidth)
		for row := int(math.Min(y1, y2) / CellHeight); float64(row*CellHeight) < math.Max(y1, y2); row++ {
			c.glyph(col, row, '│', fg)
		}
	case y1 == y2:
		row := int(y1 / CellHeight)
		for col := int(math.Min(x1, x2) / CellWidth); float64(col*CellWidth) < math.Max(x1, x2); col++ {
			c.glyph(col, row, '─', fg)
		}
	}
}

func (c *Canvas) Circle(cx, cy, _ float64, clr color.RGBA) {
	c.glyph(int(cx/CellWidth), int(cy/CellHeight), '●', tcellColor(clr))
}

func (c *Canvas) Text(s string, x, y float64, clr color.RGBA) {
	fg := tcellColor(clr)
	col, row := int(x/CellWidth), int(y/CellHeight)
	for _, r := range s {
		c.glyph(col, row, r, fg)
		col++
	}
}

// glyph writes r over a cell and keeps its background.
func (c *Canvas) glyph(col, row int, r rune, fg tcell.Color) {
	if cl := c.at(col, row); cl != nil {
		cl.r = r
		cl.fg = fg
	}
}

// Rune returns the character at a cell, or zero outside the canvas.
func (c *Canvas) Rune(col, row int) rune {
	if cl := c.at(col, row); cl != nil {
		return cl.r
	}
	return 0
}

// Flush copies the canvas onto screen and shows it.
func (c *Canvas) Flush(screen tcell.Screen) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			cl := c.cells[row*c.cols+col]
			r := cl.r
			if r == 0 {
				r = ' '
			}
			style := tcell.StyleDefault.Foreground(cl.fg).Background(cl.bg)
			screen.SetContent(col, row, r, nil, style)
		}
	}
	screen.Show()
}
