package ecs_test

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/ecs"
)

// Common test component types
type Lens struct {
	Fov float32 `json:"fov"`
}

func (*Lens) Kind() ecs.Kind { return ecs.KindCamera }
func (l *Lens) Deserialize(data json.RawMessage) error {
	return json.Unmarshal(data, l)
}

type Rig struct {
	Sensitivity float32 `json:"sensitivity"`
}

func (*Rig) Kind() ecs.Kind { return ecs.KindFreeCameraController }
func (r *Rig) Deserialize(data json.RawMessage) error {
	return json.Unmarshal(data, r)
}

type Runner struct {
	Speed float32 `json:"speed"`
}

func (*Runner) Kind() ecs.Kind { return ecs.KindPlayer }
func (r *Runner) Deserialize(data json.RawMessage) error {
	return json.Unmarshal(data, r)
}

type Pickup struct {
	Value int `json:"value"`
}

func (*Pickup) Kind() ecs.Kind { return ecs.KindCan }
func (p *Pickup) Deserialize(data json.RawMessage) error {
	return json.Unmarshal(data, p)
}

type Spin struct {
	Angular mgl32.Vec3
}

func (*Spin) Kind() ecs.Kind                    { return ecs.KindMovement }
func (*Spin) Deserialize(json.RawMessage) error { return nil }

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Lens](registry, "Lens")
	ecs.RegisterComponent[Rig](registry, "Rig")
	ecs.RegisterComponent[Runner](registry, "Runner")
	ecs.RegisterComponent[Pickup](registry, "Pickup")
	ecs.RegisterComponent[Spin](registry, "Spin")
	return registry
}

func spawn(world *ecs.World, name string, components ...ecs.Component) ecs.EntityId {
	e := world.Add()
	e.Name = name
	for _, c := range components {
		if err := world.AddComponent(e.Id(), c); err != nil {
			panic(err)
		}
	}
	return e.Id()
}
