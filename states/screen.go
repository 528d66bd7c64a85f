package states

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/canrunner/render"
	"github.com/plus3/canrunner/ui"
)

// buttonScreen is the drawing side of a menu: a full-window background that
// fades in and a negative highlight over hovered buttons.
type buttonScreen struct {
	library    *render.Library
	rectangle  *render.Mesh
	background *render.TexturedMaterial
	highlight  *render.TintedMaterial
}

func loadButtonScreen(a *Application, texture string) (*buttonScreen, error) {
	lib, err := render.NewLibrary(a.Logger())
	if err != nil {
		return nil, err
	}
	rectangle, _ := lib.Mesh(render.MeshRectangle)

	return &buttonScreen{
		library:   lib,
		rectangle: rectangle,
		background: &render.TexturedMaterial{
			TintedMaterial: render.TintedMaterial{Program: lib.Shader(render.ShaderTextured)},
			Image:          lib.LoadTexture("background", a.Config().Asset(texture)),
		},
		// White minus the background gives the negative of the button
		highlight: &render.TintedMaterial{
			Program: lib.Shader(render.ShaderTinted),
			Tint:    mgl32.Vec4{1, 1, 1, 1},
			State: render.PipelineState{Blending: render.Blending{
				Enabled:     true,
				Equation:    ebiten.BlendOperationSubtract,
				Source:      ebiten.BlendFactorOne,
				Destination: ebiten.BlendFactorOne,
			}},
		},
	}, nil
}

func (s *buttonScreen) draw(screen *ebiten.Image, fade float32, hovered []*ui.Button) {
	size := screen.Bounds().Size()
	w, h := float32(size.X), float32(size.Y)
	// Pixel coordinates with the origin at the top-left, like the cursor
	vp := mgl32.Ortho(0, w, h, 0, 1, -1)

	s.background.Tint = mgl32.Vec4{fade, fade, fade, fade}
	s.rectangle.Draw(screen, vp.Mul4(mgl32.Scale3D(w, h, 1)), s.background)

	for _, b := range hovered {
		s.rectangle.Draw(screen, vp.Mul4(b.LocalToWorld()), s.highlight)
	}
}

func (s *buttonScreen) dispose() {
	if s != nil {
		s.library.Dispose()
	}
}
