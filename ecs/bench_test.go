package ecs_test

import (
	"testing"

	"github.com/plus3/canrunner/ecs"
)

func BenchmarkAdd(b *testing.B) {
	world := ecs.NewWorld(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := world.Add()
		_ = world.AddComponent(e.Id(), &Pickup{Value: 1})
	}
}

func BenchmarkRemove(b *testing.B) {
	world := ecs.NewWorld(newTestRegistry())

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = world.Add().Id()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		world.Remove(ids[i])
	}
}

func BenchmarkGetComponent(b *testing.B) {
	world := ecs.NewWorld(newTestRegistry())
	id := spawn(world, "player", &Runner{Speed: 1})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.GetComponent[Runner](world, id)
	}
}

func BenchmarkViewIter(b *testing.B) {
	world := ecs.NewWorld(newTestRegistry())
	for i := 0; i < 1000; i++ {
		if i%2 == 0 {
			spawn(world, "can", &Pickup{Value: 1}, &Spin{})
		} else {
			spawn(world, "prop", &Spin{})
		}
	}

	view := ecs.NewView[struct {
		*ecs.Transform
		*Pickup
	}](world)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for item := range view.Values() {
			item.Transform.Position[1] += 0.01
		}
	}
}

func BenchmarkLocalToWorld(b *testing.B) {
	world := ecs.NewWorld(newTestRegistry())
	parent := world.Add().Id()
	for depth := 0; depth < 8; depth++ {
		child := world.Add().Id()
		_ = world.SetParent(child, parent)
		parent = child
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = world.LocalToWorld(parent)
	}
}
