package components

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/ecs"
)

// FreeCameraController marks the camera the player steers
type FreeCameraController struct {
	RotationSensitivity float32
	// FovSensitivity is in radians per scroll unit
	FovSensitivity      float32
	PositionSensitivity mgl32.Vec3
	SpeedupFactor       float32
}

func NewFreeCameraController() *FreeCameraController {
	c := &FreeCameraController{}
	c.SetDefaults()
	return c
}

func (*FreeCameraController) Kind() ecs.Kind { return ecs.KindFreeCameraController }

func (c *FreeCameraController) SetDefaults() {
	*c = FreeCameraController{
		RotationSensitivity: 0.01,
		FovSensitivity:      mgl32.DegToRad(0.3),
		PositionSensitivity: mgl32.Vec3{3, 3, 3},
		SpeedupFactor:       5,
	}
}

// Deserialize reads the controller keys present in data. fovSensitivity is given in degrees.
func (c *FreeCameraController) Deserialize(data json.RawMessage) error {
	if !isObject(data) {
		return nil
	}

	raw := struct {
		RotationSensitivity float32    `json:"rotationSensitivity"`
		FovSensitivity      float32    `json:"fovSensitivity"`
		PositionSensitivity mgl32.Vec3 `json:"positionSensitivity"`
		SpeedupFactor       float32    `json:"speedupFactor"`
	}{
		RotationSensitivity: c.RotationSensitivity,
		FovSensitivity:      mgl32.RadToDeg(c.FovSensitivity),
		PositionSensitivity: c.PositionSensitivity,
		SpeedupFactor:       c.SpeedupFactor,
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("free camera controller: %w", err)
	}

	c.RotationSensitivity = raw.RotationSensitivity
	c.FovSensitivity = mgl32.DegToRad(raw.FovSensitivity)
	c.PositionSensitivity = raw.PositionSensitivity
	c.SpeedupFactor = raw.SpeedupFactor
	return nil
}

// Player marks the runner model. Speed is the lateral speed in units per second.
type Player struct {
	Speed float32
}

func (*Player) Kind() ecs.Kind { return ecs.KindPlayer }

func (p *Player) SetDefaults() { p.Speed = 10 }

func (p *Player) Deserialize(data json.RawMessage) error {
	if !isObject(data) {
		return nil
	}

	raw := struct {
		Speed float32 `json:"speed"`
	}{Speed: p.Speed}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	p.Speed = raw.Speed
	return nil
}
