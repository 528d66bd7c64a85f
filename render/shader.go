// Package render draws the world with ebiten. Meshes are projected on the CPU
// and filled by Kage shaders; materials pick the shader, its uniforms and the
// blend state.
package render

import (
	"embed"
	"fmt"
	"maps"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shaders/*.kage
var shaderFS embed.FS

// Names of the built-in shaders
const (
	ShaderTinted   = "tinted"
	ShaderTextured = "textured"
	ShaderVignette = "vignette"
)

// ShaderProgram is a compiled Kage shader plus the uniform values to draw it with.
type ShaderProgram struct {
	name     string
	shader   *ebiten.Shader
	uniforms map[string]any
}

func CompileShader(name string, src []byte) (*ShaderProgram, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader %s: %w", name, err)
	}
	return &ShaderProgram{name: name, shader: s, uniforms: make(map[string]any)}, nil
}

// LoadShader compiles one of the embedded shaders
func LoadShader(name string) (*ShaderProgram, error) {
	src, err := shaderFS.ReadFile("shaders/" + name + ".kage")
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	return CompileShader(name, src)
}

func (p *ShaderProgram) Name() string { return p.name }

// Set stores a uniform value for subsequent draws
func (p *ShaderProgram) Set(name string, value any) {
	p.uniforms[name] = value
}

// Uniforms returns a copy of the current uniform values
func (p *ShaderProgram) Uniforms() map[string]any {
	return maps.Clone(p.uniforms)
}

func (p *ShaderProgram) Deallocate() {
	if p.shader != nil {
		p.shader.Deallocate()
		p.shader = nil
	}
}
