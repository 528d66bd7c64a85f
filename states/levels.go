package states

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/canrunner/input"
	"github.com/plus3/canrunner/ui"
	"go.uber.org/zap"
)

const (
	levelsBackground = "textures/levels.png"
	fadeDuration     = 2 * time.Second
)

// LevelsState lets the player pick one of the three levels.
type LevelsState struct {
	app     *Application
	buttons ui.ButtonSet
	hover   ui.HoverTracker
	fade    *ui.Fade
	hovered []*ui.Button
	screen  *buttonScreen
}

func NewLevelsState(app *Application) *LevelsState {
	s := &LevelsState{app: app, fade: ui.NewFade(fadeDuration)}
	s.buttons = ui.ButtonSet{
		{Position: mgl32.Vec2{140, 107}, Size: mgl32.Vec2{275, 70}, Action: s.start(1)},
		{Position: mgl32.Vec2{90, 300}, Size: mgl32.Vec2{380, 80}, Action: s.start(2)},
		{Position: mgl32.Vec2{140, 525}, Size: mgl32.Vec2{275, 70}, Action: s.start(3)},
	}
	return s
}

func (s *LevelsState) start(level int) func() {
	return func() {
		if err := s.app.StartLevel(level); err != nil {
			s.app.Logger().Error("cannot start level", zap.Int("level", level), zap.Error(err))
		}
	}
}

func (s *LevelsState) Buttons() ui.ButtonSet { return s.buttons }

// Fade is the current background brightness
func (s *LevelsState) Fade() float32 { return s.fade.Level() }

func (s *LevelsState) OnInitialize() error {
	s.fade.Reset()
	if !s.app.Headless() {
		screen, err := loadButtonScreen(s.app, levelsBackground)
		if err != nil {
			return err
		}
		s.screen = screen
	}
	playMusic(s.app, s.app.Config().Audio.Cues.LevelsMusic)
	return nil
}

func (s *LevelsState) OnUpdate(dt float64) error {
	keys := s.app.Input()
	if keys.JustPressed(input.KeySpace) {
		s.start(1)()
	} else if keys.JustPressed(input.KeyEscape) {
		s.app.ChangeState(StateMenu)
	}

	cursor := keys.Position()
	s.buttons.Click(cursor, keys.ButtonJustPressed(input.MouseButtonLeft))

	s.hovered = s.buttons.Hovered(cursor)
	if s.hover.Update(len(s.hovered) > 0) {
		playCue(s.app, s.app.Config().Audio.Cues.Button)
	}

	s.fade.Advance(dt)
	return nil
}

func (s *LevelsState) OnDraw(screen *ebiten.Image) {
	if s.screen != nil {
		s.screen.draw(screen, s.fade.Level(), s.hovered)
	}
}

func (s *LevelsState) OnDestroy() {
	s.screen.dispose()
	s.screen = nil
	s.app.Audio().StopAll()
}

func playMusic(app *Application, path string) {
	if path == "" {
		return
	}
	if err := app.Audio().Play(path, true); err != nil {
		app.Logger().Warn("music failed", zap.String("path", path), zap.Error(err))
	}
}

func playCue(app *Application, path string) {
	if path == "" {
		return
	}
	if err := app.Audio().Play(path, false); err != nil {
		app.Logger().Warn("sound cue failed", zap.String("path", path), zap.Error(err))
	}
}
