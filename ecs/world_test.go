package ecs_test

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		generation uint32
		slot       uint32
	}{
		{1, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("generation=%d,slot=%d", tt.generation, tt.slot), func(t *testing.T) {
			id := ecs.NewEntityId(tt.generation, tt.slot)
			assert.Equal(t, tt.generation, id.Generation())
			assert.Equal(t, tt.slot, id.Slot())
			assert.True(t, id.Valid())
		})
	}

	assert.False(t, ecs.EntityId(0).Valid())
}

func TestAddAndGet(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())

	e := world.Add()
	require.NotNil(t, e)
	assert.True(t, e.Id().Valid())
	assert.Equal(t, ecs.EntityId(0), e.Parent())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, e.LocalTransform.Scale)
	assert.Same(t, e, world.Get(e.Id()))
	assert.Equal(t, 1, world.Len())
}

func TestPointersStableAcrossGrowth(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())

	first := world.Add()
	first.Name = "first"
	for i := 0; i < 500; i++ {
		world.Add()
	}

	assert.Same(t, first, world.Get(first.Id()))
	assert.Equal(t, "first", first.Name)
	assert.Equal(t, 501, world.Len())
}

func TestRemoveInvalidatesId(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())

	id := world.Add().Id()
	assert.True(t, world.Remove(id))
	assert.Nil(t, world.Get(id))
	assert.False(t, world.Remove(id))

	// The slot is reused with a new generation
	reused := world.Add().Id()
	assert.Equal(t, id.Slot(), reused.Slot())
	assert.NotEqual(t, id, reused)
	assert.Nil(t, world.Get(id))
}

func TestComponents(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	id := spawn(world, "camera", &Lens{Fov: 1.2}, &Rig{Sensitivity: 0.5})

	lens := ecs.GetComponent[Lens](world, id)
	require.NotNil(t, lens)
	assert.Equal(t, float32(1.2), lens.Fov)
	assert.Nil(t, ecs.GetComponent[Runner](world, id))

	e := world.Get(id)
	assert.True(t, e.Has(ecs.KindCamera))
	assert.Equal(t, []ecs.Kind{ecs.KindCamera, ecs.KindFreeCameraController}, e.Kinds())

	// One component per kind: the second add replaces the first
	require.NoError(t, world.AddComponent(id, &Lens{Fov: 2}))
	assert.Equal(t, float32(2), ecs.GetComponent[Lens](world, id).Fov)

	world.RemoveComponent(id, ecs.KindCamera)
	assert.Nil(t, ecs.GetComponent[Lens](world, id))

	assert.ErrorIs(t, world.AddComponent(ecs.NewEntityId(9, 9), &Lens{}), ecs.ErrNoEntity)
}

func TestSetParentAndChildren(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	root := world.Add().Id()
	a := world.Add().Id()
	b := world.Add().Id()

	require.NoError(t, world.SetParent(a, root))
	require.NoError(t, world.SetParent(b, root))
	assert.Equal(t, []ecs.EntityId{a, b}, world.Children(root))
	assert.Equal(t, root, world.Get(a).Parent())

	// Re-parenting detaches from the old parent
	require.NoError(t, world.SetParent(b, a))
	assert.Equal(t, []ecs.EntityId{a}, world.Children(root))
	assert.Equal(t, []ecs.EntityId{b}, world.Children(a))

	require.NoError(t, world.SetParent(b, 0))
	assert.Empty(t, world.Children(a))
	assert.Equal(t, ecs.EntityId(0), world.Get(b).Parent())
}

func TestSetParentRejectsCycles(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	a := world.Add().Id()
	b := world.Add().Id()
	c := world.Add().Id()

	require.NoError(t, world.SetParent(b, a))
	require.NoError(t, world.SetParent(c, b))

	assert.ErrorIs(t, world.SetParent(a, c), ecs.ErrParentCycle)
	assert.ErrorIs(t, world.SetParent(a, a), ecs.ErrParentCycle)
	assert.ErrorIs(t, world.SetParent(a, ecs.NewEntityId(7, 100)), ecs.ErrNoEntity)
	assert.Equal(t, ecs.EntityId(0), world.Get(a).Parent())
}

func TestRemoveDoesNotCascade(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	parent := world.Add().Id()
	child := world.Add().Id()
	require.NoError(t, world.SetParent(child, parent))

	world.Remove(parent)

	c := world.Get(child)
	require.NotNil(t, c)
	assert.Equal(t, ecs.EntityId(0), c.Parent())
	assert.Equal(t, 1, world.Len())
}

func TestLocalToWorld(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	parent := world.Add()
	parent.LocalTransform.Position = mgl32.Vec3{10, 0, 0}
	parent.LocalTransform.Rotation = mgl32.Vec3{0, math.Pi / 2, 0}

	child := world.Add()
	child.LocalTransform.Position = mgl32.Vec3{0, 0, -1}
	require.NoError(t, world.SetParent(child.Id(), parent.Id()))

	p := world.LocalToWorld(child.Id()).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	// A quarter turn of yaw maps -Z onto -X
	assert.InDelta(t, 9, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
}

func TestClear(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	ids := []ecs.EntityId{world.Add().Id(), world.Add().Id()}
	require.NoError(t, world.SetParent(ids[1], ids[0]))

	world.Clear()

	assert.Equal(t, 0, world.Len())
	for _, id := range ids {
		assert.Nil(t, world.Get(id))
	}
	assert.Empty(t, world.Children(ids[0]))
	count := 0
	for range world.Entities() {
		count++
	}
	assert.Zero(t, count)
}

func TestFindByName(t *testing.T) {
	world := ecs.NewWorld(newTestRegistry())
	spawn(world, "street")
	can := spawn(world, "can", &Pickup{Value: 1})

	found := world.FindByName("can")
	require.NotNil(t, found)
	assert.Equal(t, can, found.Id())
	assert.Nil(t, world.FindByName("missing"))
}

func TestRegistry(t *testing.T) {
	registry := newTestRegistry()

	c, ok := registry.New("Runner")
	require.True(t, ok)
	assert.Equal(t, ecs.KindPlayer, c.Kind())
	require.NoError(t, c.Deserialize([]byte(`{"speed": 4}`)))
	assert.Equal(t, float32(4), c.(*Runner).Speed)

	_, ok = registry.New("Unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{"Lens", "Pickup", "Rig", "Runner", "Spin"}, registry.Names())

	assert.Panics(t, func() {
		ecs.RegisterComponent[otherLens](registry, "Other")
	})
}

type otherLens struct{}

func (*otherLens) Kind() ecs.Kind                    { return ecs.KindCamera }
func (*otherLens) Deserialize(json.RawMessage) error { return nil }
