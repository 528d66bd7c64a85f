package states

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/canrunner/input"
	"github.com/plus3/canrunner/ui"
)

const menuBackground = "textures/menu.png"

// MenuState is the title screen with play and exit buttons
type MenuState struct {
	app     *Application
	buttons ui.ButtonSet
	hover   ui.HoverTracker
	fade    *ui.Fade
	hovered []*ui.Button
	screen  *buttonScreen
}

func NewMenuState(app *Application) *MenuState {
	s := &MenuState{app: app, fade: ui.NewFade(fadeDuration)}
	s.buttons = ui.ButtonSet{
		{Position: mgl32.Vec2{830, 607}, Size: mgl32.Vec2{400, 33}, Action: func() { app.ChangeState(StateLevels) }},
		{Position: mgl32.Vec2{830, 644}, Size: mgl32.Vec2{400, 33}, Action: app.Quit},
	}
	return s
}

func (s *MenuState) Buttons() ui.ButtonSet { return s.buttons }

func (s *MenuState) OnInitialize() error {
	s.fade.Reset()
	if !s.app.Headless() {
		screen, err := loadButtonScreen(s.app, menuBackground)
		if err != nil {
			return err
		}
		s.screen = screen
	}
	playMusic(s.app, s.app.Config().Audio.Cues.MenuMusic)
	return nil
}

func (s *MenuState) OnUpdate(dt float64) error {
	keys := s.app.Input()
	switch {
	case keys.JustPressed(input.KeySpace), keys.JustPressed(input.KeyEnter):
		s.app.ChangeState(StateLevels)
	case keys.JustPressed(input.KeyEscape):
		s.app.Quit()
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

func (s *MenuState) OnDraw(screen *ebiten.Image) {
	if s.screen != nil {
		s.screen.draw(screen, s.fade.Level(), s.hovered)
	}
}

func (s *MenuState) OnDestroy() {
	s.screen.dispose()
	s.screen = nil
	s.app.Audio().StopAll()
}
