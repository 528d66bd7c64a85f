package debugui

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
	"github.com/plus3/canrunner/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLens struct {
	FovY   float32    `json:"fovY"`
	Offset mgl32.Vec3 `json:"offset"`
	cached int
	Skip   bool `json:"-"`
}

func (*testLens) Kind() ecs.Kind                    { return ecs.KindCamera }
func (*testLens) Deserialize(json.RawMessage) error { return nil }

type testCan struct{ Value int }

func (*testCan) Kind() ecs.Kind                    { return ecs.KindCan }
func (*testCan) Deserialize(json.RawMessage) error { return nil }

func newWorld(t *testing.T) (*ecs.World, ecs.EntityId, ecs.EntityId, ecs.EntityId) {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[testLens](registry, "Lens")
	ecs.RegisterComponent[testCan](registry, "Can")
	world := ecs.NewWorld(registry)

	camera := world.Add()
	camera.Name = "camera"
	require.NoError(t, world.AddComponent(camera.Id(), &testLens{}))

	can := world.Add()
	can.Name = "Can 1"
	require.NoError(t, world.AddComponent(can.Id(), &testCan{Value: 1}))

	other := world.Add()
	other.Name = "Can 2"
	require.NoError(t, world.AddComponent(other.Id(), &testCan{Value: 2}))
	require.NoError(t, world.SetParent(other.Id(), camera.Id()))

	return world, camera.Id(), can.Id(), other.Id()
}

func TestCollectAndFilterEntities(t *testing.T) {
	world, camera, can, other := newWorld(t)

	entities := collectEntities(world)
	require.Len(t, entities, 3)
	assert.Equal(t, camera, entities[0].ID)
	assert.Equal(t, []string{"Camera"}, entities[0].ComponentTypes)
	assert.Equal(t, camera, entities[2].Parent)

	byName := filterEntities(entities, "can", nil)
	require.Len(t, byName, 2)
	assert.Equal(t, can, byName[0].ID)
	assert.Equal(t, other, byName[1].ID)

	shape := uint32(1 << uint(ecs.KindCamera))
	byShape := filterEntities(entities, "", &shape)
	require.Len(t, byShape, 1)
	assert.Equal(t, camera, byShape[0].ID)

	assert.Len(t, filterEntities(entities, "", nil), 3)
}

func TestSortEntities(t *testing.T) {
	world, camera, can, other := newWorld(t)
	entities := collectEntities(world)

	sortEntities(entities, 1, true)
	assert.Equal(t, []ecs.EntityId{can, other, camera}, []ecs.EntityId{entities[0].ID, entities[1].ID, entities[2].ID})

	sortEntities(entities, 0, false)
	assert.Equal(t, []ecs.EntityId{other, can, camera}, []ecs.EntityId{entities[0].ID, entities[1].ID, entities[2].ID})
}

func TestCollectShapes(t *testing.T) {
	world, _, _, _ := newWorld(t)
	world.Add()

	shapes := collectShapes(world, intmap.New[uint32, int](8))
	sortShapes(shapes, 2, false)

	require.Len(t, shapes, 3)
	assert.Equal(t, uint32(1<<uint(ecs.KindCan)), shapes[0].Mask)
	assert.Equal(t, 2, shapes[0].EntityCount)
	assert.Equal(t, []string{"Can"}, shapes[0].ComponentTypes)
	assert.Empty(t, shapes[2].ComponentTypes)
}

func TestMatchingEntities(t *testing.T) {
	world, camera, _, _ := newWorld(t)

	assert.Len(t, matchingEntities(world, []ecs.Kind{ecs.KindCan}), 2)
	assert.Empty(t, matchingEntities(world, []ecs.Kind{ecs.KindCan, ecs.KindCamera}))

	qd := NewQueryDebugger()
	qd.selected[ecs.KindCamera] = true
	matches := matchingEntities(world, qd.requiredKinds())
	require.Len(t, matches, 1)
	assert.Equal(t, camera, matches[0].Id())
}

func TestReflectionCache(t *testing.T) {
	cache := NewReflectionCache()
	fields := cache.GetFields(reflect.TypeFor[testLens]())

	require.Len(t, fields, 2)
	assert.Equal(t, "FovY", fields[0].Name)
	assert.Equal(t, "fovY", fields[0].Label)
	assert.Equal(t, "offset", fields[1].Label)
	assert.False(t, fields[1].IsStruct)

	again := cache.GetFields(reflect.TypeFor[testLens]())
	assert.Same(t, &fields[0], &again[0])
}

func TestPerformanceStatsHistory(t *testing.T) {
	ps := NewPerformanceStats(4, nil)
	ps.record(0.004)
	ps.record(0.004)
	avg := ps.record(0.008)
	assert.InDelta(t, 4.0, avg, 1e-4)
	assert.Equal(t, 3, ps.frameIndex)

	ps.record(0.004)
	assert.Equal(t, 0, ps.frameIndex)
}

func TestNewDebugSystem(t *testing.T) {
	world, _, _, _ := newWorld(t)
	system := NewDebugSystem(world, ecs.NewScheduler(world))

	assert.Len(t, system.Panels, 5)
	assert.NotNil(t, ecs.ReadSingleton[ImguiInputState](world))
}
