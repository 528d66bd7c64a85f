package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Names of the built-in meshes
const (
	MeshRectangle = "rectangle"
	MeshPlane     = "plane"
	MeshCube      = "cube"
	MeshCylinder  = "cylinder"
)

// Rectangle is the unit square with its corner at the origin, used for screen
// space quads. Its texture coordinate at the origin is (0, 1), so with a
// projection whose origin is the top-left corner the image appears upright.
func Rectangle() *Mesh {
	return NewMesh([]Vertex{
		{Position: mgl32.Vec3{0, 0, 0}, Color: White, TexCoord: mgl32.Vec2{0, 1}, Normal: mgl32.Vec3{0, 0, 1}},
		{Position: mgl32.Vec3{1, 0, 0}, Color: White, TexCoord: mgl32.Vec2{1, 1}, Normal: mgl32.Vec3{0, 0, 1}},
		{Position: mgl32.Vec3{1, 1, 0}, Color: White, TexCoord: mgl32.Vec2{1, 0}, Normal: mgl32.Vec3{0, 0, 1}},
		{Position: mgl32.Vec3{0, 1, 0}, Color: White, TexCoord: mgl32.Vec2{0, 0}, Normal: mgl32.Vec3{0, 0, 1}},
	}, []uint32{0, 1, 2, 2, 3, 0})
}

// quad appends a face centred at c spanning ±u and ±v. u×v is the face normal.
func quad(m *Mesh, c, u, v mgl32.Vec3) {
	n := u.Cross(v).Normalize()
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Position: c.Sub(u).Sub(v), Color: White, TexCoord: mgl32.Vec2{0, 0}, Normal: n},
		Vertex{Position: c.Add(u).Sub(v), Color: White, TexCoord: mgl32.Vec2{1, 0}, Normal: n},
		Vertex{Position: c.Add(u).Add(v), Color: White, TexCoord: mgl32.Vec2{1, 1}, Normal: n},
		Vertex{Position: c.Sub(u).Add(v), Color: White, TexCoord: mgl32.Vec2{0, 1}, Normal: n},
	)
	m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
}

// Plane is a unit square in the XZ plane facing up
func Plane() *Mesh {
	m := &Mesh{}
	quad(m, mgl32.Vec3{}, mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{0, 0, -0.5})
	return m
}

// Cube is a unit cube centred on the origin
func Cube() *Mesh {
	const h = 0.5
	m := &Mesh{}
	quad(m, mgl32.Vec3{0, 0, h}, mgl32.Vec3{h, 0, 0}, mgl32.Vec3{0, h, 0})
	quad(m, mgl32.Vec3{0, 0, -h}, mgl32.Vec3{-h, 0, 0}, mgl32.Vec3{0, h, 0})
	quad(m, mgl32.Vec3{h, 0, 0}, mgl32.Vec3{0, 0, -h}, mgl32.Vec3{0, h, 0})
	quad(m, mgl32.Vec3{-h, 0, 0}, mgl32.Vec3{0, 0, h}, mgl32.Vec3{0, h, 0})
	quad(m, mgl32.Vec3{0, h, 0}, mgl32.Vec3{h, 0, 0}, mgl32.Vec3{0, 0, -h})
	quad(m, mgl32.Vec3{0, -h, 0}, mgl32.Vec3{h, 0, 0}, mgl32.Vec3{0, 0, h})
	return m
}

// Cylinder is a capped cylinder of radius 0.5 and height 1 around the Y axis
func Cylinder(segments int) *Mesh {
	segments = max(segments, 3)
	const r, h = 0.5, 0.5
	m := &Mesh{}

	point := func(i int, y float32) mgl32.Vec3 {
		a := 2 * math.Pi * float64(i) / float64(segments)
		return mgl32.Vec3{r * float32(math.Cos(a)), y, -r * float32(math.Sin(a))}
	}

	for i := range segments {
		p0, p1 := point(i, -h), point(i+1, -h)
		p2, p3 := point(i+1, h), point(i, h)
		u0, u1 := float32(i)/float32(segments), float32(i+1)/float32(segments)

		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices,
			Vertex{Position: p0, Color: White, TexCoord: mgl32.Vec2{u0, 0}, Normal: mgl32.Vec3{p0.X(), 0, p0.Z()}.Normalize()},
			Vertex{Position: p1, Color: White, TexCoord: mgl32.Vec2{u1, 0}, Normal: mgl32.Vec3{p1.X(), 0, p1.Z()}.Normalize()},
			Vertex{Position: p2, Color: White, TexCoord: mgl32.Vec2{u1, 1}, Normal: mgl32.Vec3{p2.X(), 0, p2.Z()}.Normalize()},
			Vertex{Position: p3, Color: White, TexCoord: mgl32.Vec2{u0, 1}, Normal: mgl32.Vec3{p3.X(), 0, p3.Z()}.Normalize()},
		)
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
	}

	for _, y := range []float32{h, -h} {
		normal := mgl32.Vec3{0, y / h, 0}
		center := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, Vertex{Position: mgl32.Vec3{0, y, 0}, Color: White, TexCoord: mgl32.Vec2{0.5, 0.5}, Normal: normal})
		for i := range segments {
			p := point(i, y)
			m.Vertices = append(m.Vertices, Vertex{
				Position: p,
				Color:    White,
				TexCoord: mgl32.Vec2{0.5 + p.X(), 0.5 - p.Z()},
				Normal:   normal,
			})
		}
		for i := range segments {
			a := center + 1 + uint32(i)
			b := center + 1 + uint32((i+1)%segments)
			if y > 0 {
				m.Indices = append(m.Indices, center, a, b)
			} else {
				m.Indices = append(m.Indices, center, b, a)
			}
		}
	}
	return m
}

func builtinMeshes() map[string]*Mesh {
	return map[string]*Mesh{
		MeshRectangle: Rectangle(),
		MeshPlane:     Plane(),
		MeshCube:      Cube(),
		MeshCylinder:  Cylinder(24),
	}
}
