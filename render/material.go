package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Blending mirrors a fixed-function blend setup: result = src*Source (Equation) dst*Destination
type Blending struct {
	Enabled     bool
	Equation    ebiten.BlendOperation
	Source      ebiten.BlendFactor
	Destination ebiten.BlendFactor
}

type PipelineState struct {
	FaceCulling bool
	Blending    Blending
}

// Blend converts the state into an ebiten blend. Disabled blending overwrites the destination.
func (p PipelineState) Blend() ebiten.Blend {
	if !p.Blending.Enabled {
		return ebiten.BlendCopy
	}
	b := p.Blending
	return ebiten.Blend{
		BlendFactorSourceRGB:        b.Source,
		BlendFactorSourceAlpha:      b.Source,
		BlendFactorDestinationRGB:   b.Destination,
		BlendFactorDestinationAlpha: b.Destination,
		BlendOperationRGB:           b.Equation,
		BlendOperationAlpha:         b.Equation,
	}
}

// Material decides how a mesh is filled
type Material interface {
	Shader() *ShaderProgram
	Pipeline() PipelineState
	// Texture is the image sampled by the shader, or nil
	Texture() *ebiten.Image
	Transparent() bool
	// Setup fills the draw options: blend, uniforms and source images
	Setup(opts *ebiten.DrawTrianglesShaderOptions)
}

// TintedMaterial multiplies the vertex colour by a constant tint
type TintedMaterial struct {
	Program          *ShaderProgram
	State            PipelineState
	Tint             mgl32.Vec4
	TransparentBlend bool
}

func (m *TintedMaterial) Shader() *ShaderProgram  { return m.Program }
func (m *TintedMaterial) Pipeline() PipelineState { return m.State }
func (m *TintedMaterial) Texture() *ebiten.Image  { return nil }
func (m *TintedMaterial) Transparent() bool       { return m.TransparentBlend }

func (m *TintedMaterial) Setup(opts *ebiten.DrawTrianglesShaderOptions) {
	m.Program.Set("Tint", m.Tint[:])
	opts.Blend = m.State.Blend()
	opts.Uniforms = m.Program.Uniforms()
}

// TexturedMaterial additionally multiplies by a texture sample and drops
// fragments whose alpha is below AlphaThreshold.
type TexturedMaterial struct {
	TintedMaterial
	Image          *ebiten.Image
	AlphaThreshold float32
}

func (m *TexturedMaterial) Texture() *ebiten.Image { return m.Image }

func (m *TexturedMaterial) Setup(opts *ebiten.DrawTrianglesShaderOptions) {
	m.Program.Set("AlphaThreshold", m.AlphaThreshold)
	m.TintedMaterial.Setup(opts)
	opts.Images[0] = m.Image
}

var blendFactors = map[string]ebiten.BlendFactor{
	"zero":                ebiten.BlendFactorZero,
	"one":                 ebiten.BlendFactorOne,
	"src_color":           ebiten.BlendFactorSourceColor,
	"one_minus_src_color": ebiten.BlendFactorOneMinusSourceColor,
	"src_alpha":           ebiten.BlendFactorSourceAlpha,
	"one_minus_src_alpha": ebiten.BlendFactorOneMinusSourceAlpha,
	"dst_color":           ebiten.BlendFactorDestinationColor,
	"one_minus_dst_color": ebiten.BlendFactorOneMinusDestinationColor,
	"dst_alpha":           ebiten.BlendFactorDestinationAlpha,
	"one_minus_dst_alpha": ebiten.BlendFactorOneMinusDestinationAlpha,
}

var blendOperations = map[string]ebiten.BlendOperation{
	"add":              ebiten.BlendOperationAdd,
	"subtract":         ebiten.BlendOperationSubtract,
	"reverse_subtract": ebiten.BlendOperationReverseSubtract,
	"min":              ebiten.BlendOperationMin,
	"max":              ebiten.BlendOperationMax,
}

// glName accepts both "one_minus_src_alpha" and "GL_ONE_MINUS_SRC_ALPHA"
func glName(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "gl_")
	return strings.TrimPrefix(s, "func_")
}

type pipelineJSON struct {
	FaceCulling struct {
		Enabled bool `json:"enabled"`
	} `json:"faceCulling"`
	Blending struct {
		Enabled           bool   `json:"enabled"`
		Equation          string `json:"equation"`
		SourceFactor      string `json:"sourceFactor"`
		DestinationFactor string `json:"destinationFactor"`
	} `json:"blending"`
}

func (p pipelineJSON) state() (PipelineState, error) {
	s := PipelineState{FaceCulling: p.FaceCulling.Enabled}
	b := p.Blending
	if !b.Enabled {
		return s, nil
	}

	eq, ok := blendOperations[glName(b.Equation)]
	if !ok {
		return s, fmt.Errorf("unknown blend equation %q", b.Equation)
	}
	src, ok := blendFactors[glName(b.SourceFactor)]
	if !ok {
		return s, fmt.Errorf("unknown blend factor %q", b.SourceFactor)
	}
	dst, ok := blendFactors[glName(b.DestinationFactor)]
	if !ok {
		return s, fmt.Errorf("unknown blend factor %q", b.DestinationFactor)
	}
	s.Blending = Blending{Enabled: true, Equation: eq, Source: src, Destination: dst}
	return s, nil
}

// DecodeMaterial builds a material from its scene-file description.
// Textures are looked up by name in the library.
func DecodeMaterial(data json.RawMessage, lib *Library) (Material, error) {
	raw := struct {
		Type           string       `json:"type"`
		Shader         string       `json:"shader"`
		Tint           mgl32.Vec4   `json:"tint"`
		Transparent    bool         `json:"transparent"`
		PipelineState  pipelineJSON `json:"pipelineState"`
		Texture        string       `json:"texture"`
		AlphaThreshold float32      `json:"alphaThreshold"`
	}{Tint: mgl32.Vec4{1, 1, 1, 1}}
	// Scene meshes are drawn without a depth buffer, so culling defaults to on
	raw.PipelineState.FaceCulling.Enabled = true
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}

	state, err := raw.PipelineState.state()
	if err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}

	shaderName := raw.Shader
	if shaderName == "" {
		shaderName = raw.Type
	}

	switch raw.Type {
	case "tinted", "textured":
	default:
		return nil, fmt.Errorf("material: unknown type %q", raw.Type)
	}

	program := lib.Shader(shaderName)
	if program == nil {
		return nil, fmt.Errorf("material: unknown shader %q", shaderName)
	}

	tinted := TintedMaterial{
		Program:          program,
		State:            state,
		Tint:             raw.Tint,
		TransparentBlend: raw.Transparent,
	}
	if raw.Type == "tinted" {
		return &tinted, nil
	}
	return &TexturedMaterial{
		TintedMaterial: tinted,
		Image:          lib.Texture(raw.Texture),
		AlphaThreshold: raw.AlphaThreshold,
	}, nil
}
