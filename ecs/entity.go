package ecs

import (
	"github.com/go-gl/mathgl/mgl32"
)

// EntityId encodes both the slot generation (upper 32 bits) and the arena slot (lower 32 bits).
// The zero value never refers to a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from a generation and arena slot
func NewEntityId(generation uint32, slot uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(slot))
}

// Generation extracts the generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// Slot extracts the arena slot from the entity ID
func (e EntityId) Slot() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Valid reports whether the id could refer to an entity. It does not check liveness.
func (e EntityId) Valid() bool {
	return e.Generation() != 0
}

// Transform is a position/rotation/scale triple relative to the parent entity.
// Rotation holds euler angles in radians: X is pitch, Y is yaw and Z is roll.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// NewTransform returns the identity transform
func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes translation, yaw-pitch-roll rotation and scale
func (t Transform) Matrix() mgl32.Mat4 {
	rotation := mgl32.HomogRotate3DY(t.Rotation.Y()).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z()))
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(rotation).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Entity is a single record in the world arena.
type Entity struct {
	id             EntityId
	parent         EntityId
	Name           string
	LocalTransform Transform
	components     [KindCount]Component
}

// Id returns the entity's identifier
func (e *Entity) Id() EntityId {
	return e.id
}

// Parent returns the parent entity, or 0 for a root entity
func (e *Entity) Parent() EntityId {
	return e.parent
}

// Component returns the component of the given kind, or nil
func (e *Entity) Component(kind Kind) Component {
	if kind < 0 || kind >= KindCount {
		return nil
	}
	return e.components[kind]
}

// Has reports whether the entity carries a component of the given kind
func (e *Entity) Has(kind Kind) bool {
	return e.Component(kind) != nil
}

// Kinds returns the kinds of all attached components in enumeration order
func (e *Entity) Kinds() []Kind {
	kinds := make([]Kind, 0, KindCount)
	for k, c := range e.components {
		if c != nil {
			kinds = append(kinds, Kind(k))
		}
	}
	return kinds
}
