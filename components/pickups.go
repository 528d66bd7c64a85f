package components

import (
	"encoding/json"
	"fmt"

	"github.com/plus3/canrunner/ecs"
)

// Can is a collectible. Value is added to the session's can count on pickup.
type Can struct {
	Value int
}

func (*Can) Kind() ecs.Kind { return ecs.KindCan }

func (c *Can) SetDefaults() { c.Value = 1 }

// Deserialize accepts any object; only the optional "value" key is read.
func (c *Can) Deserialize(data json.RawMessage) error {
	if !isObject(data) {
		return nil
	}

	raw := struct {
		Value int `json:"value"`
	}{Value: c.Value}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("can: %w", err)
	}
	c.Value = raw.Value
	return nil
}

// Avoid says which move clears an obstacle
type Avoid int

const (
	AvoidNone Avoid = iota
	AvoidJump
	AvoidSlide
)

func (a Avoid) String() string {
	switch a {
	case AvoidJump:
		return "jump"
	case AvoidSlide:
		return "slide"
	default:
		return "none"
	}
}

// Obstacle costs the player a heart on contact unless it is cleared with the right move
type Obstacle struct {
	Avoid  Avoid
	Radius float32
}

func (*Obstacle) Kind() ecs.Kind { return ecs.KindObstacle }

func (o *Obstacle) SetDefaults() {
	o.Avoid = AvoidNone
	o.Radius = 1
}

func (o *Obstacle) Deserialize(data json.RawMessage) error {
	if !isObject(data) {
		return nil
	}

	raw := struct {
		Avoid  string  `json:"avoid"`
		Radius float32 `json:"radius"`
	}{Avoid: o.Avoid.String(), Radius: o.Radius}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("obstacle: %w", err)
	}

	switch raw.Avoid {
	case "none":
		o.Avoid = AvoidNone
	case "jump":
		o.Avoid = AvoidJump
	case "slide":
		o.Avoid = AvoidSlide
	default:
		return fmt.Errorf("obstacle: unknown avoid %q", raw.Avoid)
	}
	o.Radius = raw.Radius
	return nil
}
