package states

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/canrunner/config"
	"github.com/plus3/canrunner/input"
	"github.com/plus3/canrunner/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlayer struct {
	played []string
	loops  []string
	stops  int
}

func (p *recordingPlayer) Play(path string, loop bool) error {
	if loop {
		p.loops = append(p.loops, path)
	} else {
		p.played = append(p.played, path)
	}
	return nil
}

func (p *recordingPlayer) StopAll()              { p.stops++ }
func (p *recordingPlayer) IsPlaying(string) bool { return false }
func (p *recordingPlayer) Close() error          { return nil }

type fixture struct {
	app   *Application
	input *input.Fake
	audio *recordingPlayer
	cfg   *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.AssetsRoot = t.TempDir()
	f := &fixture{input: input.NewFake(), audio: &recordingPlayer{}, cfg: cfg}
	f.app = NewApplication(cfg, WithHeadless(), WithInput(f.input), WithAudio(f.audio))
	return f
}

// update runs one frame and ends it on the fake input
func (f *fixture) update(t *testing.T) {
	t.Helper()
	require.NoError(t, f.app.Update())
	f.input.Step()
}

type recordingState struct {
	name    string
	events  *[]string
	initErr error
}

func (s *recordingState) OnInitialize() error {
	*s.events = append(*s.events, s.name+" init")
	return s.initErr
}

func (s *recordingState) OnUpdate(float64) error {
	*s.events = append(*s.events, s.name+" update")
	return nil
}

func (s *recordingState) OnDraw(*ebiten.Image) {}

func (s *recordingState) OnDestroy() {
	*s.events = append(*s.events, s.name+" destroy")
}

func TestApplicationTransitions(t *testing.T) {
	f := newFixture(t)
	var events []string
	for _, name := range []string{"a", "b"} {
		f.app.RegisterState(name, func(*Application) State {
			return &recordingState{name: name, events: &events}
		})
	}
	assert.Equal(t, []string{"a", "b", StateLevels, StateMenu, StatePlay}, f.app.States())

	f.app.ChangeState("a")
	f.update(t)
	assert.Equal(t, "a", f.app.Current())

	f.app.ChangeState("b")
	f.update(t)
	f.app.Close()

	assert.Equal(t, []string{"a init", "a update", "a destroy", "b init", "b update", "b destroy"}, events)
	assert.Empty(t, f.app.Current())
	assert.Equal(t, 1, f.audio.stops)
}

func TestApplicationStateErrors(t *testing.T) {
	f := newFixture(t)
	f.app.ChangeState("nowhere")
	assert.ErrorIs(t, f.app.Update(), ErrUnknownState)

	var events []string
	boom := errors.New("boom")
	f.app.RegisterState("broken", func(*Application) State {
		return &recordingState{name: "broken", events: &events, initErr: boom}
	})
	f.app.ChangeState("broken")
	assert.ErrorIs(t, f.app.Update(), boom)
	assert.Equal(t, []string{"broken init", "broken destroy"}, events, "a failed state is still destroyed")
	assert.Empty(t, f.app.Current())

	assert.ErrorIs(t, f.app.StartLevel(42), ErrUnknownLevel)
}

func TestApplicationQuit(t *testing.T) {
	f := newFixture(t)
	f.app.Quit()
	assert.ErrorIs(t, f.app.Update(), ebiten.Termination)
}

func TestApplicationLayout(t *testing.T) {
	f := newFixture(t)
	w, h := f.app.Layout(640, 480)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestMenuState(t *testing.T) {
	f := newFixture(t)
	f.app.ChangeState(StateMenu)
	f.update(t)
	require.Equal(t, StateMenu, f.app.Current())
	assert.Equal(t, []string{f.cfg.Audio.Cues.MenuMusic}, f.audio.loops)

	f.input.Press(input.KeyEnter)
	f.update(t)
	assert.Equal(t, StateLevels, f.app.next)
	f.app.next = ""

	f.input.Release(input.KeyEnter)
	f.input.Press(input.KeyEscape)
	assert.ErrorIs(t, f.app.Update(), ebiten.Termination)
}

func TestMenuExitButton(t *testing.T) {
	f := newFixture(t)
	f.app.ChangeState(StateMenu)
	f.update(t)

	menu := f.app.current.(*MenuState)
	exit := menu.Buttons()[1]
	f.input.MoveTo(exit.Position.X()+1, exit.Position.Y()+1)
	f.input.PressButton(input.MouseButtonLeft)
	assert.ErrorIs(t, f.app.Update(), ebiten.Termination)
}

func enterLevels(t *testing.T, f *fixture) *LevelsState {
	t.Helper()
	f.app.ChangeState(StateLevels)
	f.update(t)
	require.Equal(t, StateLevels, f.app.Current())
	return f.app.current.(*LevelsState)
}

func TestLevelsSpaceStartsLevelOne(t *testing.T) {
	f := newFixture(t)
	levels := enterLevels(t, f)
	assert.Equal(t, []string{f.cfg.Audio.Cues.LevelsMusic}, f.audio.loops)
	assert.Greater(t, levels.Fade(), float32(0))

	f.input.Press(input.KeySpace)
	f.update(t)

	session := f.app.Session()
	assert.Equal(t, 1, session.Level.ID)
	assert.Equal(t, 3, session.Hearts)
	assert.Zero(t, session.Cans)
	assert.Equal(t, StatePlay, f.app.next)
}

func TestLevelsEscapeReturnsToMenu(t *testing.T) {
	f := newFixture(t)
	enterLevels(t, f)

	f.input.Press(input.KeyEscape)
	f.update(t)
	assert.Equal(t, StateMenu, f.app.next)
}

func TestLevelsButtons(t *testing.T) {
	tests := []struct {
		cursor mgl32.Vec2
		level  int
		hearts int
	}{
		{mgl32.Vec2{150, 120}, 1, 3},
		{mgl32.Vec2{470, 380}, 2, 2},
		{mgl32.Vec2{415, 595}, 3, 1},
	}
	for _, tt := range tests {
		f := newFixture(t)
		enterLevels(t, f)

		f.input.MoveTo(tt.cursor.X(), tt.cursor.Y())
		f.input.PressButton(input.MouseButtonLeft)
		f.update(t)

		assert.Equal(t, tt.level, f.app.Session().Level.ID)
		assert.Equal(t, tt.hearts, f.app.Session().Hearts)
		assert.Equal(t, StatePlay, f.app.next)
	}
}

func TestLevelsButtonFiresOncePerPress(t *testing.T) {
	f := newFixture(t)
	enterLevels(t, f)

	f.input.MoveTo(200, 340)
	f.input.PressButton(input.MouseButtonLeft)
	f.update(t)
	first := f.app.Session().ID
	f.app.next = ""

	// Held without a new press edge
	f.update(t)
	f.update(t)
	assert.Equal(t, first, f.app.Session().ID)
	assert.Empty(t, f.app.next)

	f.input.ReleaseButton(input.MouseButtonLeft)
	f.update(t)
	f.input.PressButton(input.MouseButtonLeft)
	f.update(t)
	assert.NotEqual(t, first, f.app.Session().ID)
}

func TestLevelsHoverCue(t *testing.T) {
	f := newFixture(t)
	enterLevels(t, f)
	cue := f.cfg.Audio.Cues.Button

	f.input.MoveTo(10, 10)
	f.update(t)
	assert.Empty(t, f.audio.played)

	f.input.MoveTo(200, 130)
	f.update(t)
	f.input.MoveTo(210, 140)
	f.update(t)
	assert.Equal(t, []string{cue}, f.audio.played)

	f.input.MoveTo(10, 10)
	f.update(t)
	f.input.MoveTo(200, 340)
	f.update(t)
	assert.Equal(t, []string{cue, cue}, f.audio.played)
}

func TestLevelsDestroyStopsSounds(t *testing.T) {
	f := newFixture(t)
	enterLevels(t, f)
	f.app.Close()
	assert.Equal(t, 2, f.audio.stops)
}

const runnerScene = `{
	"world": [
		{
			"name": "camera",
			"position": [0, 1, 0],
			"rotation": [0, 90, 0],
			"components": [{"type": "Camera"}, {"type": "Free Camera Controller"}],
			"children": [{"name": "player", "components": [{"type": "Player", "speed": 10}]}]
		},
		{"name": "can", "position": [-10, 1, 0], "components": [{"type": "Can"}]},
		{"name": "barrier", "position": [-20, 1, 0], "components": [{"type": "Obstacle", "avoid": "none"}]}
	]
}`

func newPlayFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Join(f.cfg.AssetsRoot, "scenes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.AssetsRoot, "scenes", "runner.json"), []byte(runnerScene), 0o644))
	f.cfg.Levels = []config.LevelConfig{{ID: 1, Name: "Runner", Scene: "scenes/runner.json", Hearts: 1}}
	return f
}

func TestPlayStateRun(t *testing.T) {
	f := newPlayFixture(t)
	require.NoError(t, f.app.StartLevel(1))
	f.update(t)
	require.Equal(t, StatePlay, f.app.Current())

	play := f.app.current.(*PlayState)
	assert.Equal(t, 4, play.World().Len())
	assert.Equal(t, []string{f.cfg.Audio.Cues.PlayMusic}, f.audio.loops)

	f.input.Press(input.KeyEnter)
	for range 200 {
		f.update(t)
		if f.app.Current() == StateLevels {
			break
		}
	}
	require.Equal(t, StateLevels, f.app.Current(), "running into the barrier ends the game")

	session := f.app.Session()
	assert.Equal(t, 1, session.Cans)
	assert.Zero(t, session.Hearts)
	assert.True(t, session.Over)
	assert.Equal(t, []string{
		f.cfg.Audio.Cues.Pickup,
		f.cfg.Audio.Cues.Hit,
		f.cfg.Audio.Cues.GameOver,
	}, f.audio.played)
	assert.Equal(t, systems.Running, play.Controller().MotionState())
	assert.Zero(t, play.World().Len(), "the world is cleared on destroy")
}

func TestPlayStateEscape(t *testing.T) {
	f := newPlayFixture(t)
	require.NoError(t, f.app.StartLevel(1))
	f.update(t)

	f.input.PressButton(input.MouseButtonLeft)
	f.update(t)
	require.True(t, f.app.current.(*PlayState).Controller().Locked())

	f.input.Press(input.KeyEscape)
	f.update(t)
	f.update(t)
	assert.Equal(t, StateMenu, f.app.Current())
	assert.Equal(t, 1, f.input.UnlockCount, "leaving the level releases the pointer")
}

func TestPlayStateDefaultsToFirstLevel(t *testing.T) {
	f := newPlayFixture(t)
	f.app.ChangeState(StatePlay)
	f.update(t)
	assert.Equal(t, StatePlay, f.app.Current())
	assert.Equal(t, 1, f.app.Session().Level.ID)
}

func TestPlayStateMissingScene(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.StartLevel(2))
	err := f.app.Update()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
