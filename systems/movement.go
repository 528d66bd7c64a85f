package systems

import (
	"github.com/plus3/canrunner/components"
	"github.com/plus3/canrunner/ecs"
)

// MovementSystem applies constant linear and angular velocities.
type MovementSystem struct {
	Movers ecs.Query[struct {
		*ecs.Transform
		*components.Movement
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for item := range s.Movers.Values() {
		t := item.Transform
		t.Position = t.Position.Add(item.Movement.LinearVelocity.Mul(dt))
		for i := range t.Rotation {
			t.Rotation[i] = WrapAngle(t.Rotation[i] + item.Movement.AngularVelocity[i]*dt)
		}
	}
}
