package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

type fieldSource int

const (
	sourceComponent fieldSource = iota
	sourceEntityId
	sourceTransform
	sourceEntity
)

var (
	entityIdType  = reflect.TypeFor[EntityId]()
	transformType = reflect.TypeFor[Transform]()
	entityType    = reflect.TypeFor[Entity]()
)

// View represents a query for entities with a specific combination of components.
// The type T should be a struct whose fields are pointers to registered component types.
// A field of type EntityId receives the entity id, *Transform the local transform
// and *Entity the entity record itself.
// Named component fields can be marked as optional using the `ecs:"optional"` struct tag.
type View[T any] struct {
	world       *World
	sources     []fieldSource
	kinds       []Kind
	optional    []bool
	fieldOffset []uintptr
}

// NewView creates a new view for the given struct type
func NewView[T any](world *World) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{world: world}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		v.fieldOffset = append(v.fieldOffset, field.Offset)

		if fieldType == entityIdType {
			v.sources = append(v.sources, sourceEntityId)
			v.kinds = append(v.kinds, 0)
			v.optional = append(v.optional, false)
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or EntityId")
		}

		elem := fieldType.Elem()
		switch elem {
		case transformType:
			v.sources = append(v.sources, sourceTransform)
			v.kinds = append(v.kinds, 0)
			v.optional = append(v.optional, false)
			continue
		case entityType:
			v.sources = append(v.sources, sourceEntity)
			v.kinds = append(v.kinds, 0)
			v.optional = append(v.optional, false)
			continue
		}

		kind, ok := world.registry.kindOf(elem)
		if !ok {
			panic("component type " + elem.String() + " not registered")
		}

		// Embedded fields are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}

		v.sources = append(v.sources, sourceComponent)
		v.kinds = append(v.kinds, kind)
		v.optional = append(v.optional, isOptional)
	}

	return v
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is missing any required components
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	e := v.world.Get(id)
	if e == nil {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), e)
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

func (v *View[T]) matches(e *Entity) bool {
	for i, src := range v.sources {
		if src == sourceComponent && !v.optional[i] && e.components[v.kinds[i]] == nil {
			return false
		}
	}
	return true
}

func (v *View[T]) populate(resultPtr unsafe.Pointer, e *Entity) bool {
	if !v.matches(e) {
		return false
	}

	for i, src := range v.sources {
		fieldPtr := unsafe.Add(resultPtr, v.fieldOffset[i])

		switch src {
		case sourceEntityId:
			*(*EntityId)(fieldPtr) = e.id
		case sourceTransform:
			*(*unsafe.Pointer)(fieldPtr) = unsafe.Pointer(&e.LocalTransform)
		case sourceEntity:
			*(*unsafe.Pointer)(fieldPtr) = unsafe.Pointer(e)
		default:
			component := e.components[v.kinds[i]]
			if component == nil {
				*(*unsafe.Pointer)(fieldPtr) = nil
				continue
			}
			// Components are stored as pointers; copy the data word out of the interface
			*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
		}
	}
	return true
}

// Iter returns an iterator over all entities that have all the required components for this view
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		var result T
		resultPtr := unsafe.Pointer(&result)

		for id, e := range v.world.Entities() {
			if !v.populate(resultPtr, e) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// First returns the first matching entity in arena order
func (v *View[T]) First() (T, bool) {
	for _, value := range v.Iter() {
		return value, true
	}
	var zero T
	return zero, false
}
