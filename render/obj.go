package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadOBJ reads a Wavefront OBJ model. Polygons are split into triangle fans;
// materials, groups and smoothing statements are ignored.
func LoadOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions []mgl32.Vec3
		uvs       []mgl32.Vec2
		normals   []mgl32.Vec3
		m         = &Mesh{}
		cache     = make(map[string]uint32)
	)

	floats := func(fields []string, n int) ([]float32, error) {
		if len(fields) < n {
			return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
		}
		out := make([]float32, n)
		for i := range n {
			f, err := strconv.ParseFloat(fields[i], 32)
			if err != nil {
				return nil, err
			}
			out[i] = float32(f)
		}
		return out, nil
	}

	index := func(s string, n int) (int, error) {
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		if i < 0 {
			i += n + 1
		}
		if i < 1 || i > n {
			return 0, fmt.Errorf("index %s out of range", s)
		}
		return i - 1, nil
	}

	vertex := func(ref string) (uint32, error) {
		if idx, ok := cache[ref]; ok {
			return idx, nil
		}

		parts := strings.Split(ref, "/")
		p, err := index(parts[0], len(positions))
		if err != nil {
			return 0, err
		}
		v := Vertex{Position: positions[p], Color: White}
		if len(parts) > 1 && parts[1] != "" {
			t, err := index(parts[1], len(uvs))
			if err != nil {
				return 0, err
			}
			v.TexCoord = uvs[t]
		}
		if len(parts) > 2 && parts[2] != "" {
			n, err := index(parts[2], len(normals))
			if err != nil {
				return 0, err
			}
			v.Normal = normals[n]
		}

		idx := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, v)
		cache[ref] = idx
		return idx, nil
	}

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var f []float32
			if f, err = floats(fields[1:], 3); err == nil {
				positions = append(positions, mgl32.Vec3{f[0], f[1], f[2]})
			}
		case "vt":
			var f []float32
			if f, err = floats(fields[1:], 2); err == nil {
				uvs = append(uvs, mgl32.Vec2{f[0], f[1]})
			}
		case "vn":
			var f []float32
			if f, err = floats(fields[1:], 3); err == nil {
				normals = append(normals, mgl32.Vec3{f[0], f[1], f[2]})
			}
		case "f":
			if len(fields) < 4 {
				err = fmt.Errorf("face needs 3 vertices, got %d", len(fields)-1)
				break
			}
			face := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				var idx uint32
				if idx, err = vertex(ref); err != nil {
					break
				}
				face = append(face, idx)
			}
			for i := 1; err == nil && i+1 < len(face); i++ {
				m.Indices = append(m.Indices, face[0], face[i], face[i+1])
			}
		}
		if err != nil {
			return nil, fmt.Errorf("obj line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	return m, nil
}

func LoadOBJFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := LoadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
