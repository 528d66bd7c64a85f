package systems

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/audio"
	"github.com/plus3/canrunner/components"
	"github.com/plus3/canrunner/config"
	"github.com/plus3/canrunner/ecs"
	"github.com/plus3/canrunner/input"
	"github.com/plus3/canrunner/logging"
	"go.uber.org/zap"
)

type JumpState int

const (
	Grounded JumpState = iota
	Jumping
	Falling
)

func (s JumpState) String() string {
	switch s {
	case Jumping:
		return "Jumping"
	case Falling:
		return "Falling"
	default:
		return "Grounded"
	}
}

type SlideState int

const (
	SlideNormal SlideState = iota
	Slided
)

func (s SlideState) String() string {
	if s == Slided {
		return "Slided"
	}
	return "Normal"
}

type MotionState int

const (
	Idle MotionState = iota
	Running
)

func (s MotionState) String() string {
	if s == Running {
		return "Running"
	}
	return "Idle"
}

const (
	maxPitch = 0.99 * math.Pi / 2
	minFov   = 0.01 * math.Pi
	maxFov   = 0.99 * math.Pi
)

// FreeCameraControllerSystem steers the camera carrying a FreeCameraController
// and drives the runner: jumping and forward motion move the camera, sliding
// tips the player model over.
type FreeCameraControllerSystem struct {
	Cameras ecs.Query[struct {
		*ecs.Transform
		*components.Camera
		*components.FreeCameraController
	}]
	Players ecs.Query[struct {
		*ecs.Transform
		*components.Player
	}]
	Session ecs.Singleton[Session]
	Status  ecs.Singleton[RunnerStatus]

	input  input.Device
	audio  audio.Player
	config config.ControllerConfig
	cues   config.CueConfig
	logger *zap.Logger

	locked    bool
	missing   bool
	jump      JumpState
	slide     SlideState
	motion    MotionState
	slideTime time.Duration
}

func NewFreeCameraControllerSystem(dev input.Device, player audio.Player, cfg *config.Config, logger *zap.Logger) *FreeCameraControllerSystem {
	if player == nil {
		player = audio.Nop{}
	}
	return &FreeCameraControllerSystem{
		input:  dev,
		audio:  player,
		config: cfg.Controller,
		cues:   cfg.Audio.Cues,
		logger: logging.OrNop(logger).Named("controller"),
	}
}

func (s *FreeCameraControllerSystem) JumpState() JumpState     { return s.jump }
func (s *FreeCameraControllerSystem) SlideState() SlideState   { return s.slide }
func (s *FreeCameraControllerSystem) MotionState() MotionState { return s.motion }
func (s *FreeCameraControllerSystem) Locked() bool             { return s.locked }

func (s *FreeCameraControllerSystem) level() config.LevelConfig {
	if session := s.Session.Get(); session != nil {
		return session.Level
	}
	return config.LevelConfig{}
}

func (s *FreeCameraControllerSystem) Execute(frame *ecs.UpdateFrame) {
	_, cam, ok := s.Cameras.First()
	_, player, okPlayer := s.Players.First()
	if !ok || !okPlayer {
		if !s.missing {
			s.logger.Debug("no camera controller or player, skipping", zap.Bool("camera", ok), zap.Bool("player", okPlayer))
			s.missing = true
		}
		return
	}
	s.missing = false

	dt := float32(frame.DeltaTime)
	ctl := cam.FreeCameraController
	position := &cam.Transform.Position
	rotation := &cam.Transform.Rotation
	level := s.level()

	pressed := s.input.ButtonPressed(input.MouseButtonLeft)
	if pressed && !s.locked {
		s.input.Lock()
		s.locked = true
	} else if !pressed && s.locked {
		s.input.Unlock()
		s.locked = false
	}

	if s.locked {
		delta := s.input.Delta()
		rotation[0] -= delta.Y() * ctl.RotationSensitivity
		rotation[1] -= delta.X() * ctl.RotationSensitivity
	}

	rotation[0] = clamp(rotation[0], -maxPitch, maxPitch)
	rotation[1] = WrapAngle(rotation[1])

	fov := cam.Camera.FovY + s.input.Scroll().Y()*ctl.FovSensitivity
	cam.Camera.FovY = clamp(fov, minFov, maxFov)

	m := cam.Transform.Matrix()
	front := m.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	up := m.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	right := m.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()

	sensitivity := ctl.PositionSensitivity
	if s.input.Pressed(input.KeyShift) {
		sensitivity = sensitivity.Mul(ctl.SpeedupFactor)
	}

	if s.input.Pressed(input.KeyW) {
		*position = position.Add(front.Mul(dt * sensitivity.Z()))
	}
	if s.input.Pressed(input.KeyS) {
		*position = position.Sub(front.Mul(dt * sensitivity.Z()))
	}
	if s.input.Pressed(input.KeyQ) {
		*position = position.Add(up.Mul(dt * sensitivity.Y()))
	}
	if s.input.Pressed(input.KeyE) {
		*position = position.Sub(up.Mul(dt * sensitivity.Y()))
	}

	s.updateJump(position, dt, level)
	s.updateSlide(player.Transform, frame.DeltaTime, level)

	if s.input.Pressed(input.KeyEnter) && s.motion != Running {
		s.motion = Running
		s.logger.Debug("running")
	}
	if s.motion == Running {
		*position = position.Add(front.Mul(dt * s.config.RunSpeed))
	}

	s.updateLateral(position, right.Mul(dt*player.Player.Speed), level)

	if status := s.Status.Get(); status != nil {
		*status = RunnerStatus{Jump: s.jump, Slide: s.slide, Motion: s.motion}
	}
}

func (s *FreeCameraControllerSystem) updateJump(position *mgl32.Vec3, dt float32, level config.LevelConfig) {
	speed := s.config.JumpSpeed

	jumpPressed := s.input.Pressed(input.KeySpace) || s.input.Pressed(input.KeyUp)
	if jumpPressed && !level.Grounded && s.jump == Grounded && s.slide == SlideNormal {
		playCue(s.audio, s.logger, s.cues.Jump)
		s.jump = Jumping
		position[1] += dt * speed
	}

	if position.Y() >= s.config.JumpMaxHeight {
		s.jump = Falling
	} else if position.Y() <= s.config.GroundHeight {
		if s.jump == Falling {
			playCue(s.audio, s.logger, s.cues.Land)
		}
		s.jump = Grounded
	}

	switch s.jump {
	case Jumping:
		position[1] += dt * speed
	case Falling:
		position[1] -= dt * speed
	default:
		position[1] = s.config.GroundHeight
	}
}

func (s *FreeCameraControllerSystem) updateSlide(player *ecs.Transform, dt float64, level config.LevelConfig) {
	slidePressed := s.input.Pressed(input.KeyS) || s.input.Pressed(input.KeyDown)
	if slidePressed && !level.Grounded && s.slide == SlideNormal && s.jump == Grounded {
		s.slide = Slided
		if s.audio.IsPlaying(s.cues.Slide) {
			s.audio.StopAll()
		}
		playCue(s.audio, s.logger, s.cues.Slide)

		player.Rotation[0] -= math.Pi / 2
		player.Position[2] -= 1
		player.Position[1] += 1
		s.slideTime = 0
	}

	if s.slide == Slided {
		s.slideTime += time.Duration(math.Round(dt * float64(time.Second)))
		if s.slideTime >= s.config.SlideDuration {
			s.slide = SlideNormal
			player.Position[1] -= 1
			player.Position[2] += 1
			player.Rotation[0] += math.Pi / 2
		}
	}
}

// updateLateral moves the camera sideways inside the lane corridor. Reversed
// levels face the other way, so both the direction and the bound flip.
func (s *FreeCameraControllerSystem) updateLateral(position *mgl32.Vec3, step mgl32.Vec3, level config.LevelConfig) {
	half := s.config.LaneHalfWidth
	if level.Reversed {
		step = step.Mul(-1)
	}

	if s.input.Pressed(input.KeyD) || s.input.Pressed(input.KeyRight) {
		if level.Reversed && position.Z() < half || !level.Reversed && position.Z() > -half {
			*position = position.Add(step)
		}
	}
	if s.input.Pressed(input.KeyA) || s.input.Pressed(input.KeyLeft) {
		if level.Reversed && position.Z() > -half || !level.Reversed && position.Z() < half {
			*position = position.Sub(step)
		}
	}
}

// Exit releases the pointer lock
func (s *FreeCameraControllerSystem) Exit() {
	if s.locked {
		s.locked = false
		s.input.Unlock()
	}
}
