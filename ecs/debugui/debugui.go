// Package debugui is the Dear ImGui overlay of the desktop frontend. Windows
// such as the performance stats and the session panel are ImguiItem entities,
// and ImguiSystem renders them each frame while publishing whether ImGui wants
// the pointer or keyboard, so the game only sees input the overlay ignores.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/colorsquares/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Frontends check it before forwarding pointer or key events to the game.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// CurrentInputState reads the capture flags from the live ImGui context.
func CurrentInputState() ImguiInputState {
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type ImguiSystem struct {
	// Probe replaces CurrentInputState, for running without an ImGui context.
	Probe func() ImguiInputState

	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	probe := i.Probe
	if probe == nil {
		probe = CurrentInputState
	}
	if state := i.InputState.Get(); state != nil {
		*state = probe()
	}

	for item := range i.Items.Iter() {
		frame.Commands.Defer(item.Render)
	}
}
