// Package components holds the concrete component types attached to scene entities
// and the names they are registered under in scene files.
package components

import (
	"bytes"
	"encoding/json"

	"github.com/plus3/canrunner/ecs"
)

// Scene type names
const (
	CameraName               = "Camera"
	FreeCameraControllerName = "Free Camera Controller"
	PlayerName               = "Player"
	CanName                  = "Can"
	ObstacleName             = "Obstacle"
	MovementName             = "Movement"
	MeshRendererName         = "Mesh Renderer"
)

// Register adds every component type to the registry
func Register(r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Camera](r, CameraName)
	ecs.RegisterComponent[FreeCameraController](r, FreeCameraControllerName)
	ecs.RegisterComponent[Player](r, PlayerName)
	ecs.RegisterComponent[Can](r, CanName)
	ecs.RegisterComponent[Obstacle](r, ObstacleName)
	ecs.RegisterComponent[Movement](r, MovementName)
	ecs.RegisterComponent[MeshRenderer](r, MeshRendererName)
}

// NewRegistry returns a registry with every component type registered
func NewRegistry() *ecs.ComponentRegistry {
	r := ecs.NewComponentRegistry()
	Register(r)
	return r
}

// isObject reports whether data holds a JSON object. Components ignore any other input.
func isObject(data json.RawMessage) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
