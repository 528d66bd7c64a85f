package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton provides efficient access to a single value that is not associated
// with any entity. Use this for the active level, input snapshots, session
// counters and other per-world state.
type Singleton[T any] struct {
	world         *World
	componentPtr  unsafe.Pointer
	componentType reflect.Type
}

// NewSingleton creates a new Singleton accessor for the given world.
// If initializer is provided and the singleton doesn't exist yet,
// it is created with the initializer value. Otherwise, a zero value is used.
func NewSingleton[T any](world *World, initializer ...T) *Singleton[T] {
	componentType := reflect.TypeFor[T]()

	entry := world.getSingletonEntry(componentType)
	if entry == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		world.AddSingleton(value)
		entry = world.getSingletonEntry(componentType)
	}

	return &Singleton[T]{
		world:         world,
		componentPtr:  entry.dataPtr,
		componentType: componentType,
	}
}

// Init binds the Singleton to a world.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(world *World) {
	s.world = world
	s.componentType = reflect.TypeFor[T]()
	s.updateCache()
}

// Get returns a pointer to the singleton value, or nil if it was never added.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	if s.componentPtr == nil {
		return nil
	}
	return (*T)(s.componentPtr)
}

func (s *Singleton[T]) updateCache() {
	if s.world == nil {
		return
	}
	entry := s.world.getSingletonEntry(s.componentType)
	if entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}

// Exists returns true if the singleton has been added to the world
func (s *Singleton[T]) Exists() bool {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return s.componentPtr != nil
}
