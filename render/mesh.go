package render

import (
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

type Color [4]uint8

var White = Color{255, 255, 255, 255}

type Vertex struct {
	Position mgl32.Vec3
	Color    Color
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
}

// Mesh is an indexed triangle list. Front faces wind counter-clockwise.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func NewMesh(vertices []Vertex, indices []uint32) *Mesh {
	return &Mesh{Vertices: vertices, Indices: indices}
}

// ScreenVertex is a vertex after projection. X and Y are pixels from the
// top-left corner, Z is the normalised depth.
type ScreenVertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	TexCoord mgl32.Vec2
}

// Triangles projects the mesh through mvp onto a width×height viewport.
// A triangle with any vertex in front of the near plane is dropped, and when
// cull is set so is every triangle that winds clockwise on screen.
func (m *Mesh) Triangles(mvp mgl32.Mat4, width, height float32, cull bool) iter.Seq[[3]ScreenVertex] {
	return func(yield func([3]ScreenVertex) bool) {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			var tri [3]ScreenVertex
			var ndc [3]mgl32.Vec3
			visible := true

			for k := range 3 {
				v := m.Vertices[m.Indices[i+k]]
				clip := mvp.Mul4x1(v.Position.Vec4(1))
				if clip.W() <= 1e-6 || clip.Z() < -clip.W() {
					visible = false
					break
				}
				ndc[k] = clip.Vec3().Mul(1 / clip.W())
				tri[k] = ScreenVertex{
					Position: mgl32.Vec3{
						(ndc[k].X() + 1) / 2 * width,
						(1 - ndc[k].Y()) / 2 * height,
						ndc[k].Z(),
					},
					Color: mgl32.Vec4{
						float32(v.Color[0]) / 255,
						float32(v.Color[1]) / 255,
						float32(v.Color[2]) / 255,
						float32(v.Color[3]) / 255,
					},
					TexCoord: v.TexCoord,
				}
			}
			if !visible {
				continue
			}

			if cull {
				e1 := ndc[1].Sub(ndc[0])
				e2 := ndc[2].Sub(ndc[0])
				if e1.X()*e2.Y()-e1.Y()*e2.X() <= 0 {
					continue
				}
			}

			if !yield(tri) {
				return
			}
		}
	}
}

// Draw projects the mesh and fills it with the material
func (m *Mesh) Draw(dst *ebiten.Image, mvp mgl32.Mat4, material Material) {
	size := dst.Bounds().Size()

	var texW, texH float32
	if tex := material.Texture(); tex != nil {
		b := tex.Bounds()
		texW, texH = float32(b.Dx()), float32(b.Dy())
	}

	opts := &ebiten.DrawTrianglesShaderOptions{}
	material.Setup(opts)
	shader := material.Shader().shader

	vertices := make([]ebiten.Vertex, 0, len(m.Indices))
	indices := make([]uint16, 0, len(m.Indices))
	flush := func() {
		if len(indices) > 0 {
			dst.DrawTrianglesShader(vertices, indices, shader, opts)
		}
		vertices = vertices[:0]
		indices = indices[:0]
	}

	for tri := range m.Triangles(mvp, float32(size.X), float32(size.Y), material.Pipeline().FaceCulling) {
		if len(vertices)+3 > math.MaxUint16 {
			flush()
		}
		for _, v := range tri {
			indices = append(indices, uint16(len(vertices)))
			vertices = append(vertices, ebiten.Vertex{
				DstX:   v.Position.X(),
				DstY:   v.Position.Y(),
				SrcX:   v.TexCoord.X() * texW,
				SrcY:   (1 - v.TexCoord.Y()) * texH,
				ColorR: v.Color[0],
				ColorG: v.Color[1],
				ColorB: v.Color[2],
				ColorA: v.Color[3],
			})
		}
	}
	flush()
}
