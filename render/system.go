package render

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/canrunner/components"
	"github.com/plus3/canrunner/ecs"
	"github.com/plus3/canrunner/logging"
	"go.uber.org/zap"
)

// SkyColor fills the frame before the world is drawn
var SkyColor = color.RGBA{R: 135, G: 190, B: 235, A: 255}

type drawCall struct {
	mesh     *Mesh
	material Material
	mvp      mgl32.Mat4
	depth    float32
}

// RenderSystem draws every MeshRenderer as seen from the first camera.
// Without a depth buffer, draws are sorted back to front: opaque materials
// first, then transparent ones.
type RenderSystem struct {
	Cameras ecs.Query[struct {
		ecs.EntityId
		*components.Camera
	}]
	Renderers ecs.Query[struct {
		ecs.EntityId
		*components.MeshRenderer
	}]

	library  *Library
	logger   *zap.Logger
	target   *ebiten.Image
	scene    *ebiten.Image
	vignette bool
	warned   map[string]bool
	calls    []drawCall
}

func NewRenderSystem(library *Library, vignette bool, logger *zap.Logger) *RenderSystem {
	return &RenderSystem{
		library:  library,
		logger:   logging.OrNop(logger).Named("render"),
		vignette: vignette,
		warned:   make(map[string]bool),
	}
}

// SetTarget selects the image the next frame is drawn to
func (s *RenderSystem) SetTarget(img *ebiten.Image) {
	s.target = img
}

func (s *RenderSystem) warnOnce(what, name string) {
	key := what + ":" + name
	if s.warned[key] {
		return
	}
	s.warned[key] = true
	s.logger.Warn("missing "+what, zap.String("name", name))
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	if s.target == nil {
		return
	}
	camID, cam, ok := s.Cameras.First()
	if !ok {
		return
	}

	size := s.target.Bounds().Size()
	world := frame.World
	view := components.ViewMatrix(world.LocalToWorld(camID))
	vp := cam.Camera.ProjectionMatrix(size.X, size.Y).Mul4(view)

	s.calls = s.calls[:0]
	for id, item := range s.Renderers.Iter() {
		mesh, ok := s.library.Mesh(item.MeshRenderer.Mesh)
		if !ok {
			s.warnOnce("mesh", item.MeshRenderer.Mesh)
			continue
		}
		material, ok := s.library.Material(item.MeshRenderer.Material)
		if !ok {
			s.warnOnce("material", item.MeshRenderer.Material)
			continue
		}

		model := world.LocalToWorld(id)
		center := view.Mul4(model).Col(3)
		s.calls = append(s.calls, drawCall{
			mesh:     mesh,
			material: material,
			mvp:      vp.Mul4(model),
			depth:    -center.Z(),
		})
	}
	sortDrawCalls(s.calls)

	dst := s.target
	if s.vignette {
		if s.scene == nil || s.scene.Bounds().Size() != size {
			if s.scene != nil {
				s.scene.Deallocate()
			}
			s.scene = ebiten.NewImage(size.X, size.Y)
		}
		dst = s.scene
	}

	dst.Fill(SkyColor)
	for _, c := range s.calls {
		c.mesh.Draw(dst, c.mvp, c.material)
	}

	if s.vignette {
		shader := s.library.Shader(ShaderVignette)
		shader.Set("Resolution", []float32{float32(size.X), float32(size.Y)})
		s.target.DrawRectShader(size.X, size.Y, shader.shader, &ebiten.DrawRectShaderOptions{
			Uniforms: shader.Uniforms(),
			Images:   [4]*ebiten.Image{s.scene},
		})
	}
}

// sortDrawCalls orders opaque before transparent, each from far to near
func sortDrawCalls(calls []drawCall) {
	slices.SortStableFunc(calls, func(a, b drawCall) int {
		at, bt := a.material.Transparent(), b.material.Transparent()
		if at != bt {
			if at {
				return 1
			}
			return -1
		}
		return cmp.Compare(b.depth, a.depth)
	})
}

// Dispose releases the offscreen scene image
func (s *RenderSystem) Dispose() {
	if s.scene != nil {
		s.scene.Deallocate()
		s.scene = nil
	}
}
