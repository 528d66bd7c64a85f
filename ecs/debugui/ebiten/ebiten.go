// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Overlay brackets a game frame with ImGui frame calls and draws the result
// on top of the game image.
type Overlay struct {
	backend ImguiBackend
}

// NewOverlay creates the ImGui backend and the window it draws into.
// The window replaces the plain ebiten window setup, so call it before ebiten.RunGame.
func NewOverlay(title string, width, height int) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &Overlay{backend: ImguiBackend{EbitenBackend: backend}}
}

// BeginFrame must run before any system issues ImGui calls.
func (o *Overlay) BeginFrame() {
	o.backend.BeginFrame()
}

// EndFrame closes the frame opened by BeginFrame.
func (o *Overlay) EndFrame() {
	o.backend.EndFrame()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *Overlay) Layout(outsideWidth, outsideHeight int) {
	o.backend.Layout(outsideWidth, outsideHeight)
}
