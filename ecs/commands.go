package ecs

// Commands provides a buffer for deferred world operations that are executed at the end of a frame.
// This prevents structural changes to the world while systems iterate it.
type Commands struct {
	spawns  []spawnCommand
	removes []EntityId
	adds    []addComponentCommand
	drops   []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	name       string
	parent     EntityId
	transform  Transform
	components []Component
}

type addComponentCommand struct {
	entity    EntityId
	component Component
}

type removeComponentCommand struct {
	entity EntityId
	kind   Kind
}

// Defer queues a function to run after all other commands.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues the creation of an entity under parent (0 for a root).
func (c *Commands) Spawn(name string, parent EntityId, transform Transform, components ...Component) {
	c.spawns = append(c.spawns, spawnCommand{
		name:       name,
		parent:     parent,
		transform:  transform,
		components: components,
	})
}

// Remove queues an entity removal.
func (c *Commands) Remove(entity EntityId) {
	c.removes = append(c.removes, entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, component Component) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, kind Kind) {
	c.drops = append(c.drops, removeComponentCommand{entity: entity, kind: kind})
}

// Pending reports whether any command is queued
func (c *Commands) Pending() bool {
	return len(c.spawns)+len(c.removes)+len(c.adds)+len(c.drops)+len(c.defers) > 0
}

// Flush applies all commands to the world, resetting the buffer state.
// Removals run first; operations on removed entities are dropped.
func (c *Commands) Flush(world *World) {
	removed := make(map[EntityId]bool, len(c.removes))

	for _, id := range c.removes {
		world.Remove(id)
		removed[id] = true
	}

	for _, cmd := range c.drops {
		if !removed[cmd.entity] {
			world.RemoveComponent(cmd.entity, cmd.kind)
		}
	}

	for _, cmd := range c.adds {
		if !removed[cmd.entity] {
			_ = world.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		e := world.Add()
		e.Name = cmd.name
		e.LocalTransform = cmd.transform
		if cmd.parent != 0 && !removed[cmd.parent] {
			_ = world.SetParent(e.Id(), cmd.parent)
		}
		for _, comp := range cmd.components {
			_ = world.AddComponent(e.Id(), comp)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.removes = c.removes[:0]
	c.adds = c.adds[:0]
	c.drops = c.drops[:0]
	c.defers = c.defers[:0]
}
