// Package debugui provides an immediate-mode inspector for the world using Dear ImGui.
// Panels render after the scheduler flushes its commands so they always show
// the settled state of a frame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/canrunner/ecs"
)

// Panel is a debug window drawn once per frame.
type Panel interface {
	Render(world *ecs.World, frame *ecs.UpdateFrame)
}

// PanelFunc adapts a plain function to the Panel interface.
type PanelFunc func(world *ecs.World, frame *ecs.UpdateFrame)

func (f PanelFunc) Render(world *ecs.World, frame *ecs.UpdateFrame) {
	f(world, frame)
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton.
// Game input handling checks it so clicks on a debug window don't steer the player.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem updates the ImguiInputState singleton and defers every panel's
// render call until the end of the frame.
type ImguiSystem struct {
	InputState ecs.Singleton[ImguiInputState]
	Panels     []Panel
}

// Execute updates input state and queues all panels for rendering.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for _, panel := range i.Panels {
		frame.Commands.Defer(func() {
			panel.Render(frame.World, frame)
		})
	}
}
