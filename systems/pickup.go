package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/audio"
	"github.com/plus3/canrunner/components"
	"github.com/plus3/canrunner/config"
	"github.com/plus3/canrunner/ecs"
	"github.com/plus3/canrunner/logging"
	"go.uber.org/zap"
)

// PickupSystem resolves contacts between the player and cans or obstacles.
// Distances are measured between world positions.
type PickupSystem struct {
	Players ecs.Query[struct {
		ecs.EntityId
		*components.Player
	}]
	Cans ecs.Query[struct {
		ecs.EntityId
		*components.Can
	}]
	Obstacles ecs.Query[struct {
		ecs.EntityId
		*components.Obstacle
	}]
	Session ecs.Singleton[Session]
	Status  ecs.Singleton[RunnerStatus]

	// OnGameOver runs after the frame in which the last heart was lost
	OnGameOver func(Session)

	audio  audio.Player
	radius float32
	cues   config.CueConfig
	logger *zap.Logger
}

func NewPickupSystem(player audio.Player, cfg *config.Config, logger *zap.Logger) *PickupSystem {
	if player == nil {
		player = audio.Nop{}
	}
	return &PickupSystem{
		audio:  player,
		radius: cfg.Controller.PickupRadius,
		cues:   cfg.Audio.Cues,
		logger: logging.OrNop(logger).Named("pickup"),
	}
}

func worldPosition(world *ecs.World, id ecs.EntityId) mgl32.Vec3 {
	return world.LocalToWorld(id).Col(3).Vec3()
}

// avoided reports whether the runner's current move clears the obstacle
func avoided(o *components.Obstacle, status RunnerStatus) bool {
	switch o.Avoid {
	case components.AvoidJump:
		return status.Jump != Grounded
	case components.AvoidSlide:
		return status.Slide == Slided
	}
	return false
}

func (s *PickupSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session == nil || session.Over {
		return
	}
	playerID, _, ok := s.Players.First()
	if !ok {
		return
	}

	var status RunnerStatus
	if st := s.Status.Get(); st != nil {
		status = *st
	}

	world := frame.World
	at := worldPosition(world, playerID)

	for id, item := range s.Cans.Iter() {
		if worldPosition(world, id).Sub(at).Len() > s.radius {
			continue
		}
		frame.Commands.Remove(id)
		session.Cans += item.Can.Value
		playCue(s.audio, s.logger, s.cues.Pickup)
	}

	for id, item := range s.Obstacles.Iter() {
		if worldPosition(world, id).Sub(at).Len() > item.Obstacle.Radius || avoided(item.Obstacle, status) {
			continue
		}
		frame.Commands.Remove(id)
		session.Hearts--
		playCue(s.audio, s.logger, s.cues.Hit)
		s.logger.Debug("obstacle hit", zap.Int("hearts", session.Hearts))

		if session.Hearts <= 0 {
			session.Over = true
			s.logger.Info("game over", zap.Stringer("session", session.ID), zap.Int("cans", session.Cans))
			playCue(s.audio, s.logger, s.cues.GameOver)
			if s.OnGameOver != nil {
				final := *session
				frame.Commands.Defer(func() { s.OnGameOver(final) })
			}
			return
		}
	}
}
