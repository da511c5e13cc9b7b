package desktop

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/colorsquares/game"
)

// sessionPanel is the overlay window showing session state, lane heights and
// event totals, with buttons mirroring the control panel.
type sessionPanel struct {
	game  *game.Game
	tally map[game.EventKind]int
}

func newSessionPanel(g *game.Game) *sessionPanel {
	return &sessionPanel{game: g, tally: make(map[game.EventKind]int)}
}

func (p *sessionPanel) observe(events []game.Event) {
	for _, e := range events {
		p.tally[e.Kind]++
	}
}

// laneFill is each lane's height as a fraction of the overflow height.
func laneFill(cfg game.Config, snap game.Snapshot) []float32 {
	out := make([]float32, cfg.Lanes)
	for lane := range out {
		out[lane] = min(float32(snap.LaneHeight(lane))/float32(cfg.OverflowHeight), 1)
	}
	return out
}

func (p *sessionPanel) Render() {
	cfg := p.game.Config()
	snap := p.game.Snapshot()

	imgui.SetNextWindowPosV(imgui.NewVec2(float32(cfg.Width())+10, 280), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(debugWidth-20, 310), imgui.CondOnce)
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Tick: %d", snap.Tick))
	imgui.Text(fmt.Sprintf("Phase: %s", snap.Phase))
	if snap.Phase == game.PhaseGameOver {
		imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), fmt.Sprintf("Outcome: %s", snap.Outcome))
	}
	imgui.Text(fmt.Sprintf("Remaining: %d  Elapsed: %ds", snap.Remaining, snap.Elapsed))
	imgui.Text(fmt.Sprintf("Colors: %d  Speed: %d  Squares: %d", snap.Settings.Colors, snap.Settings.Speed, snap.Settings.Total))

	if snap.HasActive {
		c := cfg.RGB(snap.Active.Color)
		imgui.PushStyleColorVec4(imgui.ColButton, imgui.NewVec4(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, 1))
		imgui.Button(fmt.Sprintf("lane %d", snap.Active.Lane))
		imgui.PopStyleColor()
		imgui.SameLine()
		imgui.Text(fmt.Sprintf("y=%.0f dragging=%v", snap.Active.Y, snap.Dragging))
	}

	imgui.Separator()
	for lane, fill := range laneFill(cfg, snap) {
		overlay := fmt.Sprintf("lane %d: %d", lane, snap.LaneHeight(lane))
		imgui.ProgressBarV(fill, imgui.NewVec2(-1, 0), overlay)
	}

	imgui.Separator()
	for _, b := range []struct {
		label string
		key   game.Key
	}{
		{"Start", game.KeyStart},
		{"Stop", game.KeyStop},
		{"Colors", game.KeyColors},
		{"Speed", game.KeySpeed},
		{"Squares", game.KeySquares},
	} {
		if imgui.Button(b.label) {
			p.game.Push(game.Input{Kind: game.InputKeyDown, Key: b.key})
		}
		imgui.SameLine()
	}
	imgui.NewLine()

	if imgui.TreeNodeStr("Events") {
		for kind := game.EventSpawned; kind <= game.EventSettingsChanged; kind++ {
			imgui.BulletText(fmt.Sprintf("%s: %d", kind, p.tally[kind]))
		}
		imgui.TreePop()
	}

	imgui.End()
}
