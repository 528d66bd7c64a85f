package states

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/plus3/canrunner/components"
	"github.com/plus3/canrunner/ecs"
	"github.com/plus3/canrunner/input"
	"github.com/plus3/canrunner/render"
	"github.com/plus3/canrunner/scene"
	"github.com/plus3/canrunner/systems"
	"go.uber.org/zap"
)

// PlayState runs a level: it loads the scene into a fresh world, steps the
// gameplay systems every update and renders the world every draw.
type PlayState struct {
	app *Application

	world     *ecs.World
	session   *ecs.Singleton[systems.Session]
	scheduler *ecs.Scheduler
	draw      *ecs.Scheduler
	control   *systems.FreeCameraControllerSystem
	library   *render.Library
	renderer  *render.RenderSystem
	over      bool
}

func NewPlayState(app *Application) *PlayState {
	return &PlayState{app: app}
}

func (s *PlayState) World() *ecs.World                               { return s.world }
func (s *PlayState) Controller() *systems.FreeCameraControllerSystem { return s.control }

func (s *PlayState) OnInitialize() error {
	cfg := s.app.Config()
	logger := s.app.Logger().Named("play")

	session := s.app.Session()
	if session.Level.Scene == "" {
		level, ok := cfg.Level(1)
		if !ok {
			return fmt.Errorf("%w: 1", ErrUnknownLevel)
		}
		session = systems.NewSession(level)
		s.app.SetSession(session)
	}

	file, err := scene.LoadFile(cfg.Asset(session.Level.Scene))
	if err != nil {
		return err
	}

	s.world = ecs.NewWorld(components.NewRegistry())
	loader := scene.NewLoader(cfg.Grid, scene.WithLogger(logger))
	if err := loader.Deserialize(s.world, file.World, 0); err != nil {
		return err
	}
	s.session = ecs.NewSingleton(s.world, session)
	ecs.NewSingleton[systems.RunnerStatus](s.world)

	s.control = systems.NewFreeCameraControllerSystem(s.app.Input(), s.app.Audio(), cfg, logger)
	pickup := systems.NewPickupSystem(s.app.Audio(), cfg, logger)
	pickup.OnGameOver = s.gameOver

	s.scheduler = ecs.NewScheduler(s.world)
	s.scheduler.Register(s.control)
	s.scheduler.Register(&systems.MovementSystem{})
	s.scheduler.Register(pickup)
	if s.app.debugSystem != nil {
		s.scheduler.Register(s.app.debugSystem(s.world, s.scheduler))
	}

	s.draw = ecs.NewScheduler(s.world)
	if !s.app.Headless() {
		s.library, err = render.NewLibrary(logger)
		if err != nil {
			return err
		}
		if err := s.library.LoadScene(context.Background(), file, cfg.Asset); err != nil {
			logger.Warn("scene assets incomplete", zap.Error(err))
		}
		s.renderer = render.NewRenderSystem(s.library, true, logger)
		s.draw.Register(s.renderer)
	}

	logger.Info("level loaded",
		zap.Int("level", session.Level.ID),
		zap.Int("entities", s.world.Len()),
		zap.Stringer("session", session.ID))
	playMusic(s.app, cfg.Audio.Cues.PlayMusic)
	return nil
}

func (s *PlayState) gameOver(final systems.Session) {
	s.over = true
	s.app.SetSession(final)
	s.app.Logger().Info("game over",
		zap.Int("level", final.Level.ID),
		zap.Int("cans", final.Cans),
		zap.Stringer("session", final.ID))
	s.app.ChangeState(StateLevels)
}

func (s *PlayState) OnUpdate(dt float64) error {
	if s.app.Input().JustPressed(input.KeyEscape) {
		s.app.ChangeState(StateMenu)
		return nil
	}

	s.scheduler.Once(dt)
	if !s.over {
		if session := s.session.Get(); session != nil {
			s.app.SetSession(*session)
		}
	}
	return nil
}

func (s *PlayState) OnDraw(screen *ebiten.Image) {
	if s.renderer == nil {
		return
	}
	s.renderer.SetTarget(screen)
	s.draw.Once(0)

	session := s.app.Session()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Cans: %d  Hearts: %d", session.Cans, session.Hearts))
}

func (s *PlayState) OnDestroy() {
	if s.scheduler != nil {
		s.scheduler.Exit()
	}
	if s.renderer != nil {
		s.renderer.Dispose()
	}
	if s.library != nil {
		s.library.Dispose()
	}
	if s.world != nil {
		s.world.Clear()
	}
	s.app.Audio().StopAll()
}
