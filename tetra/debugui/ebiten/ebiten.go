// Package ebiten provides the Dear ImGui backend used to draw tetra inspectors
// on top of an Ebiten game.
package ebiten

import (
	"time"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cubefall/tetra"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window. The imgui.ini file is disabled.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

// Frame runs one loop frame between BeginFrame and EndFrame so deferred
// render functions land in the current ImGui frame.
func (b *ImguiBackend) Frame(loop *tetra.Loop, dt float64) {
	b.BeginFrame()
	loop.Once(time.Duration(dt * float64(time.Second)))
	b.EndFrame()
}

// DrawOver draws the ImGui overlay on top of screen.
func (b *ImguiBackend) DrawOver(screen *ebiten.Image) {
	b.Draw(screen)
}
