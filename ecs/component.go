package ecs

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Kind identifies a component type. The set of kinds is closed: every component
// attached to an entity occupies exactly one slot of the entity's component table.
type Kind int

const (
	KindCamera Kind = iota
	KindFreeCameraController
	KindPlayer
	KindCan
	KindObstacle
	KindMovement
	KindMeshRenderer

	// KindCount is the number of component kinds
	KindCount
)

var kindNames = [KindCount]string{
	KindCamera:               "Camera",
	KindFreeCameraController: "FreeCameraController",
	KindPlayer:               "Player",
	KindCan:                  "Can",
	KindObstacle:             "Obstacle",
	KindMovement:             "Movement",
	KindMeshRenderer:         "MeshRenderer",
}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Component is data attached to an entity. Components never own entities.
type Component interface {
	Kind() Kind
	Deserialize(data json.RawMessage) error
}

// Defaulter is implemented by components whose zero value is not a usable default.
// The registry calls SetDefaults on every component it creates.
type Defaulter interface {
	SetDefaults()
}

type componentInfo struct {
	name    string
	kind    Kind
	typ     reflect.Type
	factory func() Component
}

// ComponentRegistry maps scene type names and Go types to component kinds.
// Each World has its own registry.
type ComponentRegistry struct {
	byName map[string]*componentInfo
	byType map[reflect.Type]*componentInfo
	byKind [KindCount]*componentInfo
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byName: make(map[string]*componentInfo),
		byType: make(map[reflect.Type]*componentInfo),
	}
}

// RegisterComponent registers component type T under the given scene type name.
// Registering two different types for the same kind panics.
func RegisterComponent[T any, PT interface {
	*T
	Component
}](r *ComponentRegistry, name string) {
	var zero T
	kind := PT(&zero).Kind()
	if kind < 0 || kind >= KindCount {
		panic("component " + name + " reports invalid kind " + kind.String())
	}

	t := reflect.TypeFor[T]()
	if existing := r.byKind[kind]; existing != nil && existing.typ != t {
		panic("kind " + kind.String() + " already registered for " + existing.typ.String())
	}

	info := &componentInfo{
		name: name,
		kind: kind,
		typ:  t,
		factory: func() Component {
			c := PT(new(T))
			if d, ok := any(c).(Defaulter); ok {
				d.SetDefaults()
			}
			return c
		},
	}
	r.byName[name] = info
	r.byType[t] = info
	r.byKind[kind] = info
}

// New creates a zero component for the given scene type name.
func (r *ComponentRegistry) New(name string) (Component, bool) {
	info, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return info.factory(), true
}

// Names returns all registered scene type names, sorted.
func (r *ComponentRegistry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeOf returns the Go type registered for a kind.
func (r *ComponentRegistry) TypeOf(kind Kind) (reflect.Type, bool) {
	if kind < 0 || kind >= KindCount || r.byKind[kind] == nil {
		return nil, false
	}
	return r.byKind[kind].typ, true
}

// kindOf resolves a Go component type to its kind.
func (r *ComponentRegistry) kindOf(t reflect.Type) (Kind, bool) {
	info, ok := r.byType[t]
	if !ok {
		return 0, false
	}
	return info.kind, true
}
