package render

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/canrunner/logging"
	"github.com/plus3/canrunner/scene"
	"go.uber.org/zap"
)

// Library owns the shaders, meshes, textures and materials a state draws with.
type Library struct {
	shaders     map[string]*ShaderProgram
	meshes      map[string]*Mesh
	textures    map[string]*ebiten.Image
	materials   map[string]Material
	placeholder *ebiten.Image
	logger      *zap.Logger
}

// NewLibrary compiles the built-in shaders and registers the built-in meshes
func NewLibrary(logger *zap.Logger) (*Library, error) {
	l := &Library{
		shaders:   make(map[string]*ShaderProgram),
		meshes:    builtinMeshes(),
		textures:  make(map[string]*ebiten.Image),
		materials: make(map[string]Material),
		logger:    logging.OrNop(logger).Named("render"),
	}
	for _, name := range []string{ShaderTinted, ShaderTextured, ShaderVignette} {
		p, err := LoadShader(name)
		if err != nil {
			l.Dispose()
			return nil, err
		}
		l.shaders[name] = p
	}
	return l, nil
}

func (l *Library) Shader(name string) *ShaderProgram { return l.shaders[name] }

func (l *Library) Mesh(name string) (*Mesh, bool) {
	m, ok := l.meshes[name]
	return m, ok
}

func (l *Library) Material(name string) (Material, bool) {
	m, ok := l.materials[name]
	return m, ok
}

func (l *Library) AddMesh(name string, m *Mesh)              { l.meshes[name] = m }
func (l *Library) AddMaterial(name string, m Material)       { l.materials[name] = m }
func (l *Library) AddTexture(name string, img *ebiten.Image) { l.textures[name] = img }

// Texture returns the named texture, or the placeholder checkerboard
func (l *Library) Texture(name string) *ebiten.Image {
	if img, ok := l.textures[name]; ok {
		return img
	}
	if l.placeholder == nil {
		l.placeholder = ebiten.NewImageFromImage(PlaceholderImage())
	}
	return l.placeholder
}

// LoadTexture decodes a single image file, falling back to the placeholder
func (l *Library) LoadTexture(name, path string) *ebiten.Image {
	img, err := DecodeImage(path)
	if err != nil {
		l.logger.Warn("texture missing, using placeholder", zap.String("texture", name), zap.Error(err))
		return l.Texture(name)
	}
	tex := ebiten.NewImageFromImage(img)
	l.textures[name] = tex
	return tex
}

// LoadScene loads the asset tables of a scene file. Texture files are decoded
// in parallel; a texture that fails to load is replaced by the placeholder.
func (l *Library) LoadScene(ctx context.Context, f *scene.File, resolve func(string) string) error {
	paths := make(map[string]string, len(f.Textures))
	for name, rel := range f.Textures {
		paths[name] = resolve(rel)
	}
	decoded, err := Preload(ctx, paths, 0, l.logger)
	if err != nil {
		l.logger.Warn("some textures failed to load", zap.Error(err))
	}
	for name := range f.Textures {
		if img, ok := decoded[name]; ok {
			l.textures[name] = ebiten.NewImageFromImage(img)
		}
	}

	var errs []error
	for name, src := range f.Meshes {
		if _, ok := l.meshes[src]; ok {
			l.meshes[name] = l.meshes[src]
			continue
		}
		if !strings.EqualFold(filepath.Ext(src), ".obj") {
			errs = append(errs, fmt.Errorf("mesh %s: unknown mesh %q", name, src))
			continue
		}
		m, err := LoadOBJFile(resolve(src))
		if err != nil {
			errs = append(errs, fmt.Errorf("mesh %s: %w", name, err))
			continue
		}
		l.meshes[name] = m
	}

	for name, data := range f.Materials {
		m, err := DecodeMaterial(data, l)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		l.materials[name] = m
	}

	l.logger.Info("scene assets loaded",
		zap.Int("textures", len(l.textures)),
		zap.Int("meshes", len(l.meshes)),
		zap.Int("materials", len(l.materials)))
	return errors.Join(errs...)
}

// Dispose releases every GPU resource held by the library
func (l *Library) Dispose() {
	for _, img := range l.textures {
		img.Deallocate()
	}
	if l.placeholder != nil {
		l.placeholder.Deallocate()
		l.placeholder = nil
	}
	for _, s := range l.shaders {
		s.Deallocate()
	}
	clear(l.textures)
	clear(l.shaders)
	clear(l.materials)
}
