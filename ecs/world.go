package ecs

import (
	"errors"
	"iter"
	"reflect"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
)

const entityBlockSize = 64

var (
	// ErrNoEntity is returned when an id does not refer to a live entity.
	ErrNoEntity = errors.New("ecs: no such entity")
	// ErrParentCycle is returned when a parent assignment would make an entity its own ancestor.
	ErrParentCycle = errors.New("ecs: parent assignment would create a cycle")
)

// World owns every entity. Entities live in fixed-size blocks so pointers
// returned by Add and Get stay valid until the entity is removed.
type World struct {
	registry    *ComponentRegistry
	blocks      []*[entityBlockSize]Entity
	generations []uint32
	freeSlots   []uint32
	nextSlot    uint32
	count       int
	children    *intmap.Map[EntityId, []EntityId]
	singletons  map[reflect.Type]*singletonEntry
}

type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewWorld creates an empty world using the given component registry
func NewWorld(registry *ComponentRegistry) *World {
	return &World{
		registry:   registry,
		children:   intmap.New[EntityId, []EntityId](64),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry of this world
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Add creates a new root entity with an identity transform
func (w *World) Add() *Entity {
	var slot uint32
	if n := len(w.freeSlots); n > 0 {
		slot = w.freeSlots[n-1]
		w.freeSlots = w.freeSlots[:n-1]
	} else {
		slot = w.nextSlot
		w.nextSlot++
		if int(slot/entityBlockSize) >= len(w.blocks) {
			w.blocks = append(w.blocks, new([entityBlockSize]Entity))
		}
		w.generations = append(w.generations, 0)
	}

	gen := w.generations[slot] + 1
	if gen == 0 {
		gen = 1
	}
	w.generations[slot] = gen

	e := w.slot(slot)
	*e = Entity{
		id:             NewEntityId(gen, slot),
		LocalTransform: NewTransform(),
	}
	w.count++
	return e
}

func (w *World) slot(slot uint32) *Entity {
	return &w.blocks[slot/entityBlockSize][slot%entityBlockSize]
}

// Get returns the live entity for id, or nil
func (w *World) Get(id EntityId) *Entity {
	if !id.Valid() || id.Slot() >= w.nextSlot {
		return nil
	}
	e := w.slot(id.Slot())
	if e.id != id {
		return nil
	}
	return e
}

// Len returns the number of live entities
func (w *World) Len() int {
	return w.count
}

// Remove destroys an entity. Its children are not removed; they become roots.
func (w *World) Remove(id EntityId) bool {
	e := w.Get(id)
	if e == nil {
		return false
	}

	if e.parent != 0 {
		w.detach(e.parent, id)
	}
	if kids, ok := w.children.Get(id); ok {
		for _, child := range kids {
			if c := w.Get(child); c != nil {
				c.parent = 0
			}
		}
		w.children.Del(id)
	}

	*e = Entity{}
	w.freeSlots = append(w.freeSlots, id.Slot())
	w.count--
	return true
}

// Clear removes every entity. Previously issued ids stay invalid.
func (w *World) Clear() {
	for _, e := range w.Entities() {
		w.freeSlots = append(w.freeSlots, e.id.Slot())
		*e = Entity{}
	}
	w.count = 0
	w.children.Clear()
}

// Entities iterates live entities in arena order
func (w *World) Entities() iter.Seq2[EntityId, *Entity] {
	return func(yield func(EntityId, *Entity) bool) {
		for slot := uint32(0); slot < w.nextSlot; slot++ {
			e := w.slot(slot)
			if e.id == 0 {
				continue
			}
			if !yield(e.id, e) {
				return
			}
		}
	}
}

// FindByName returns the first live entity with the given name, or nil
func (w *World) FindByName(name string) *Entity {
	for _, e := range w.Entities() {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Children returns the direct children of an entity
func (w *World) Children(id EntityId) []EntityId {
	kids, ok := w.children.Get(id)
	if !ok {
		return nil
	}
	out := make([]EntityId, len(kids))
	copy(out, kids)
	return out
}

// SetParent re-parents child under parent. A zero parent makes child a root.
func (w *World) SetParent(child, parent EntityId) error {
	c := w.Get(child)
	if c == nil {
		return ErrNoEntity
	}
	if parent != 0 {
		if w.Get(parent) == nil {
			return ErrNoEntity
		}
		for p := parent; p != 0; p = w.Get(p).parent {
			if p == child {
				return ErrParentCycle
			}
		}
	}

	if c.parent == parent {
		return nil
	}
	if c.parent != 0 {
		w.detach(c.parent, child)
	}
	c.parent = parent
	if parent != 0 {
		kids, _ := w.children.Get(parent)
		w.children.Put(parent, append(kids, child))
	}
	return nil
}

func (w *World) detach(parent, child EntityId) {
	kids, ok := w.children.Get(parent)
	if !ok {
		return
	}
	for i, k := range kids {
		if k == child {
			kids = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	if len(kids) == 0 {
		w.children.Del(parent)
		return
	}
	w.children.Put(parent, kids)
}

// LocalToWorld composes the transforms from the root down to id
func (w *World) LocalToWorld(id EntityId) mgl32.Mat4 {
	e := w.Get(id)
	if e == nil {
		return mgl32.Ident4()
	}
	m := e.LocalTransform.Matrix()
	for p := w.Get(e.parent); p != nil; p = w.Get(p.parent) {
		m = p.LocalTransform.Matrix().Mul4(m)
	}
	return m
}

// AddComponent attaches c to the entity, replacing any component of the same kind
func (w *World) AddComponent(id EntityId, c Component) error {
	e := w.Get(id)
	if e == nil {
		return ErrNoEntity
	}
	if reflect.TypeOf(c).Kind() != reflect.Ptr {
		panic("components must be stored as pointers")
	}
	e.components[c.Kind()] = c
	return nil
}

// RemoveComponent detaches the component of the given kind
func (w *World) RemoveComponent(id EntityId, kind Kind) {
	e := w.Get(id)
	if e == nil || kind < 0 || kind >= KindCount {
		return
	}
	e.components[kind] = nil
}

// GetComponent returns the typed component of an entity, or nil
func GetComponent[T any, PT interface {
	*T
	Component
}](w *World, id EntityId) *T {
	e := w.Get(id)
	if e == nil {
		return nil
	}
	var zero T
	c, ok := e.components[PT(&zero).Kind()].(PT)
	if !ok {
		return nil
	}
	return (*T)(c)
}

// AddSingleton stores a value not associated with any entity.
// An existing singleton of the same type is overwritten in place.
func (w *World) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	t := v.Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
		v = v.Elem()
	}
	if entry, ok := w.singletons[t]; ok {
		entry.value.Elem().Set(v)
		return
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	w.singletons[t] = &singletonEntry{
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
}

func (w *World) getSingletonEntry(t reflect.Type) *singletonEntry {
	return w.singletons[t]
}

// ReadSingleton returns the singleton of type T, or nil
func ReadSingleton[T any](w *World) *T {
	entry := w.getSingletonEntry(reflect.TypeFor[T]())
	if entry == nil {
		return nil
	}
	return (*T)(entry.dataPtr)
}
