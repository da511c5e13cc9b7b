package game

// Button is a control-panel action.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonStart
	ButtonStop
	ButtonColors
	ButtonSpeed
	ButtonSquares
)

func (b Button) String() string {
	switch b {
	case ButtonStart:
		return "start"
	case ButtonStop:
		return "stop"
	case ButtonColors:
		return "colors"
	case ButtonSpeed:
		return "speed"
	case ButtonSquares:
		return "squares"
	}
	return "none"
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// PanelButton places one button on the panel.
type PanelButton struct {
	Button Button
	Rect   Rect
}

// Panel is the layout of the control panel right of the playfield. The
// renderer and the input controller share it.
type Panel struct {
	Bounds    Rect
	Buttons   []PanelButton
	Time      Rect
	Remaining Rect
}

// Panel lays out the control panel for c.
func (c Config) Panel() Panel {
	x := c.PlayfieldWidth + 5
	w := max(c.PanelWidth-10, 0)
	const h = 30

	return Panel{
		Bounds: Rect{X: c.PlayfieldWidth, Y: 0, W: c.PanelWidth, H: c.PlayfieldHeight},
		Buttons: []PanelButton{
			{ButtonStart, Rect{x, 10, w, h}},
			{ButtonStop, Rect{x, 50, w, h}},
			{ButtonColors, Rect{x, 130, w, h}},
			{ButtonSpeed, Rect{x, 180, w, h}},
			{ButtonSquares, Rect{x, 230, w, h}},
		},
		Time:      Rect{x, 90, w, h},
		Remaining: Rect{x, 280, w, h},
	}
}

// ButtonAt hit-tests a pointer position.
func (p Panel) ButtonAt(x, y float64) Button {
	for _, b := range p.Buttons {
		if b.Rect.Contains(x, y) {
			return b.Button
		}
	}
	return ButtonNone
}
