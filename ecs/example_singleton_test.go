package ecs_test

import (
	"fmt"

	"github.com/plus3/canrunner/ecs"
)

type ActiveLevel struct {
	Index  int
	Hearts int
}

// ExampleSingleton demonstrates world-wide values that belong to no entity.
func ExampleSingleton() {
	world := ecs.NewWorld(newTestRegistry())

	level := ecs.NewSingleton(world, ActiveLevel{Index: 1, Hearts: 3})
	level.Get().Hearts--

	// A second accessor sees the same value
	again := ecs.NewSingleton[ActiveLevel](world)
	fmt.Printf("level %d, hearts %d\n", again.Get().Index, again.Get().Hearts)

	// Output:
	// level 1, hearts 2
}
