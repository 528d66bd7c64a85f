package components

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/ecs"
)

// Movement moves and spins its entity at a constant rate.
// AngularVelocity is stored in radians per second.
type Movement struct {
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3
}

func (*Movement) Kind() ecs.Kind { return ecs.KindMovement }

func (m *Movement) Deserialize(data json.RawMessage) error {
	if !isObject(data) {
		return nil
	}

	raw := struct {
		LinearVelocity  mgl32.Vec3 `json:"linearVelocity"`
		AngularVelocity mgl32.Vec3 `json:"angularVelocity"`
	}{LinearVelocity: m.LinearVelocity}
	for i, rad := range m.AngularVelocity {
		raw.AngularVelocity[i] = mgl32.RadToDeg(rad)
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("movement: %w", err)
	}

	m.LinearVelocity = raw.LinearVelocity
	for i, deg := range raw.AngularVelocity {
		m.AngularVelocity[i] = mgl32.DegToRad(deg)
	}
	return nil
}

// MeshRenderer draws the named mesh with the named material
type MeshRenderer struct {
	Mesh     string
	Material string
}

func (*MeshRenderer) Kind() ecs.Kind { return ecs.KindMeshRenderer }

func (r *MeshRenderer) Deserialize(data json.RawMessage) error {
	if !isObject(data) {
		return nil
	}

	raw := struct {
		Mesh     string `json:"mesh"`
		Material string `json:"material"`
	}{Mesh: r.Mesh, Material: r.Material}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("mesh renderer: %w", err)
	}
	r.Mesh = raw.Mesh
	r.Material = raw.Material
	return nil
}
