package scene

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/components"
	"github.com/plus3/canrunner/config"
	"github.com/plus3/canrunner/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newLoader(opts ...Option) *Loader {
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(42, 42)))}, opts...)
	return NewLoader(config.Default().Grid, opts...)
}

func newWorld() *ecs.World {
	return ecs.NewWorld(components.NewRegistry())
}

func byName(world *ecs.World, name string) []*ecs.Entity {
	var out []*ecs.Entity
	for _, e := range world.Entities() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func TestDeserializeFlat(t *testing.T) {
	world := newWorld()
	parent := world.Add().Id()

	data := `[{"name": "a"}, {"name": "b"}, {"name": "c"}]`
	require.NoError(t, newLoader().Deserialize(world, json.RawMessage(data), parent))

	assert.Equal(t, 4, world.Len())
	for _, name := range []string{"a", "b", "c"} {
		found := byName(world, name)
		require.Len(t, found, 1)
		assert.Equal(t, parent, found[0].Parent())
	}
	assert.Len(t, world.Children(parent), 3)
}

func TestDeserializeTransformAndComponents(t *testing.T) {
	world := newWorld()
	data := `[{
		"name": "camera",
		"position": [0, 1, 10],
		"rotation": [0, 90, 0],
		"scale": [2, 2, 2],
		"components": [
			{"type": "Camera", "fovY": 60},
			{"type": "Free Camera Controller"},
			{"type": "Jetpack"}
		]
	}]`
	require.NoError(t, newLoader().Deserialize(world, json.RawMessage(data), 0))

	camera := world.FindByName("camera")
	require.NotNil(t, camera)
	assert.Equal(t, ecs.EntityId(0), camera.Parent())
	assert.Equal(t, mgl32.Vec3{0, 1, 10}, camera.LocalTransform.Position)
	assert.InDelta(t, math.Pi/2, camera.LocalTransform.Rotation.Y(), 1e-6)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, camera.LocalTransform.Scale)

	lens := ecs.GetComponent[components.Camera](world, camera.Id())
	require.NotNil(t, lens)
	assert.InDelta(t, math.Pi/3, lens.FovY, 1e-6)
	assert.NotNil(t, ecs.GetComponent[components.FreeCameraController](world, camera.Id()))
	assert.Equal(t, []ecs.Kind{ecs.KindCamera, ecs.KindFreeCameraController}, camera.Kinds())
}

func TestDeserializeChildren(t *testing.T) {
	world := newWorld()
	data := `[{
		"name": "street",
		"children": [
			{"name": "lamp", "children": [{"name": "bulb"}]},
			{"name": "bench"}
		]
	}]`
	require.NoError(t, newLoader().Deserialize(world, json.RawMessage(data), 0))

	assert.Equal(t, 4, world.Len())
	street := world.FindByName("street")
	lamp := world.FindByName("lamp")
	bulb := world.FindByName("bulb")
	bench := world.FindByName("bench")

	assert.Equal(t, ecs.EntityId(0), street.Parent())
	assert.Equal(t, street.Id(), lamp.Parent())
	assert.Equal(t, street.Id(), bench.Parent())
	assert.Equal(t, lamp.Id(), bulb.Parent())
}

func TestDeserializeLinearDuplicates(t *testing.T) {
	world := newWorld()
	data := `[{"name": "can", "position": [3, 1, 2], "duplicates": [5, 4, 0], "components": [{"type": "Can"}]}]`
	require.NoError(t, newLoader().Deserialize(world, json.RawMessage(data), 0))

	cans := byName(world, "can")
	require.Len(t, cans, 5)

	// Arena order: the original first, then duplicate i at x - i*spacing
	for i, e := range cans {
		assert.Equal(t, mgl32.Vec3{3 - float32(i)*4, 1, 2}, e.LocalTransform.Position)
		assert.True(t, e.Has(ecs.KindCan))
	}
}

func TestDuplicatesDoNotCopyChildren(t *testing.T) {
	world := newWorld()
	data := `[{"name": "tree", "duplicates": [3, 10, 0], "children": [{"name": "leaf"}]}]`
	require.NoError(t, newLoader().Deserialize(world, json.RawMessage(data), 0))

	assert.Len(t, byName(world, "tree"), 3)
	assert.Len(t, byName(world, "leaf"), 1)
}

func TestDeserializeRandomLaneDuplicates(t *testing.T) {
	world := newWorld()
	loader := newLoader()
	grid := config.Default().Grid

	data := `[{"name": "can", "position": [0, 1, 0], "duplicates": [200, 0, true]}]`
	require.NoError(t, loader.Deserialize(world, json.RawMessage(data), 0))

	cans := byName(world, "can")
	require.Len(t, cans, 200)
	assert.Equal(t, 199, loader.Occupancy().Used())

	cells := make(map[[2]int]bool)
	for _, e := range cans[1:] {
		p := e.LocalTransform.Position
		row := int(math.Round(float64(-p.X() / grid.SliceSize)))
		col := int(math.Round(float64((p.Z() - grid.LaneOrigin) / grid.LaneWidth)))

		require.False(t, cells[[2]int{row, col}], "duplicate placed twice in %d,%d", row, col)
		cells[[2]int{row, col}] = true
		assert.True(t, loader.Occupancy().Occupied(row, col))
		assert.GreaterOrEqual(t, p.Z(), float32(-7.5))
		assert.LessOrEqual(t, p.Z(), float32(7.5))
	}
}

func TestDeserializeOccupancyFull(t *testing.T) {
	world := newWorld()
	grid := config.GridConfig{Rows: 2, Columns: 2, SliceSize: 13, LaneOrigin: -7.5, LaneWidth: 2.5}
	loader := NewLoader(grid, WithRand(rand.New(rand.NewPCG(1, 1))))

	data := `[{"name": "crate", "duplicates": [6, 0, 1]}]`
	err := loader.Deserialize(world, json.RawMessage(data), 0)
	require.ErrorIs(t, err, ErrOccupancyFull)
	assert.Contains(t, err.Error(), "crate")

	// The original plus the four duplicates that fit
	assert.Len(t, byName(world, "crate"), 5)

	loader.Reset()
	assert.Zero(t, loader.Occupancy().Used())
}

func TestDeserializeIgnoresNonArray(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	world := newWorld()
	loader := newLoader(WithLogger(zap.New(core)))

	for _, data := range []string{`{"name": "a"}`, `"x"`, `12`, ``} {
		assert.NoError(t, loader.Deserialize(world, json.RawMessage(data), 0))
	}
	assert.Zero(t, world.Len())
	assert.Equal(t, 4, recorded.FilterMessage("ignoring non-array entity list").Len())
}

func TestDeserializeNonObjectElement(t *testing.T) {
	world := newWorld()
	require.NoError(t, newLoader().Deserialize(world, json.RawMessage(`[1, {"name": "x"}]`), 0))
	assert.Equal(t, 2, world.Len())
}

func TestDeserializeUnknownComponentWarns(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	world := newWorld()
	loader := newLoader(WithLogger(zap.New(core)))

	require.NoError(t, loader.Deserialize(world, json.RawMessage(`[{"components": [{"type": "Jetpack"}]}]`), 0))
	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "Jetpack", logs[0].ContextMap()["type"])
}

func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad position", `[{"name": "a", "position": "here"}]`},
		{"bad component", `[{"name": "a", "components": [{"type": "Camera", "cameraType": "fisheye"}]}]`},
		{"bad duplicates", `[{"name": "a", "duplicates": "many"}]`},
		{"bad child", `[{"name": "a", "children": [{"scale": [1, "x", 1]}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, newLoader().Deserialize(newWorld(), json.RawMessage(tt.data), 0))
		})
	}
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(` [{"name": "a"}]`))
	require.NoError(t, err)
	assert.Nil(t, f.Materials)
	assert.True(t, isArray(f.World))

	f, err = Parse([]byte(`{
		"textures": {"can": "textures/can.png"},
		"meshes": {"can": "cylinder"},
		"materials": {"can": {"type": "textured", "texture": "can"}},
		"world": [{"name": "a"}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "textures/can.png", f.Textures["can"])
	assert.Equal(t, "cylinder", f.Meshes["can"])
	assert.Contains(t, f.Materials, "can")

	world := newWorld()
	require.NoError(t, newLoader().Deserialize(world, f.World, 0))
	assert.Equal(t, 1, world.Len())

	_, err = Parse([]byte(`{"world": `))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "a"}, {"name": "b"}]`), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)

	world := newWorld()
	require.NoError(t, newLoader().Deserialize(world, f.World, 0))
	assert.Equal(t, 2, world.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
