// Package debugui provides Dear ImGui inspector windows for a running tetra Engine and Loop.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cubefall/tetra"
)

// ImguiItem holds a Dear ImGui render function drawn once per frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether Dear ImGui is consuming mouse or keyboard input.
// Hosts check it before translating keys into engine intents.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay is a Loop system that refreshes ImguiInputState and defers every
// item's render function until the frame's systems have all executed.
type Overlay struct {
	Items      []ImguiItem
	InputState ImguiInputState
}

// Add registers a render function.
func (o *Overlay) Add(render func()) {
	o.Items = append(o.Items, ImguiItem{Render: render})
}

// Execute updates input state and queues all ImGui render functions for execution.
func (o *Overlay) Execute(frame *tetra.Frame) {
	o.InputState.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	o.InputState.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for _, item := range o.Items {
		frame.Defer(item.Render)
	}
}
