// Package states holds the game screens and the ebiten.Game that switches between them.
package states

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/canrunner/audio"
	"github.com/plus3/canrunner/config"
	"github.com/plus3/canrunner/ecs"
	"github.com/plus3/canrunner/input"
	"github.com/plus3/canrunner/logging"
	"github.com/plus3/canrunner/systems"
	"go.uber.org/zap"
)

// Names of the built-in states
const (
	StateMenu   = "menu"
	StateLevels = "levels"
	StatePlay   = "play"
)

var (
	ErrUnknownState = errors.New("unknown state")
	ErrUnknownLevel = errors.New("unknown level")
)

// State is one screen of the game. OnDestroy is called for every state that
// was initialized, on each transition and when the application closes.
type State interface {
	OnInitialize() error
	OnUpdate(dt float64) error
	OnDraw(screen *ebiten.Image)
	OnDestroy()
}

// Overlay is a debug UI drawn over the game, such as the ImGui inspector
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(outsideWidth, outsideHeight int)
}

// DebugSystemFactory builds the debug system registered with each play scheduler
type DebugSystemFactory func(world *ecs.World, scheduler *ecs.Scheduler) ecs.System

type Option func(*Application)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Application) { a.logger = logger }
}

func WithInput(dev input.Device) Option {
	return func(a *Application) { a.input = dev }
}

func WithAudio(player audio.Player) Option {
	return func(a *Application) { a.audio = player }
}

// WithHeadless skips every GPU resource. States still update but draw nothing.
func WithHeadless() Option {
	return func(a *Application) { a.headless = true }
}

func WithOverlay(overlay Overlay, debug DebugSystemFactory) Option {
	return func(a *Application) {
		a.overlay = overlay
		a.debugSystem = debug
	}
}

// Application implements ebiten.Game
type Application struct {
	cfg         *config.Config
	logger      *zap.Logger
	input       input.Device
	audio       audio.Player
	headless    bool
	overlay     Overlay
	debugSystem DebugSystemFactory

	factories map[string]func(*Application) State
	current   State
	name      string
	next      string
	quit      bool

	session systems.Session
}

func NewApplication(cfg *config.Config, opts ...Option) *Application {
	a := &Application{
		cfg:       cfg,
		factories: make(map[string]func(*Application) State),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrNop(a.logger)
	if a.input == nil {
		a.input = input.NewFake()
	}
	if a.audio == nil {
		a.audio = audio.Nop{}
	}

	a.RegisterState(StateMenu, func(a *Application) State { return NewMenuState(a) })
	a.RegisterState(StateLevels, func(a *Application) State { return NewLevelsState(a) })
	a.RegisterState(StatePlay, func(a *Application) State { return NewPlayState(a) })
	return a
}

func (a *Application) Config() *config.Config { return a.cfg }
func (a *Application) Logger() *zap.Logger    { return a.logger }
func (a *Application) Input() input.Device    { return a.input }
func (a *Application) Audio() audio.Player    { return a.audio }
func (a *Application) Headless() bool         { return a.headless }

// Session is the current or last played run
func (a *Application) Session() systems.Session { return a.session }

func (a *Application) SetSession(s systems.Session) { a.session = s }

func (a *Application) RegisterState(name string, factory func(*Application) State) {
	a.factories[name] = factory
}

// States lists the registered state names
func (a *Application) States() []string {
	return slices.Sorted(maps.Keys(a.factories))
}

// ChangeState switches to the named state at the start of the next update
func (a *Application) ChangeState(name string) {
	a.next = name
}

// StartLevel begins a fresh run of the level: no cans, the level's hearts.
func (a *Application) StartLevel(id int) error {
	level, ok := a.cfg.Level(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownLevel, id)
	}
	a.session = systems.NewSession(level)
	a.logger.Info("starting level",
		zap.Int("level", id),
		zap.Int("hearts", level.Hearts),
		zap.Stringer("session", a.session.ID))
	a.ChangeState(StatePlay)
	return nil
}

// Quit ends the game after the current update
func (a *Application) Quit() {
	a.quit = true
}

// Current is the name of the active state
func (a *Application) Current() string { return a.name }

// CurrentState is the active state, or nil before the first update
func (a *Application) CurrentState() State { return a.current }

func (a *Application) switchState() error {
	name := a.next
	a.next = ""

	factory, ok := a.factories[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	a.destroyCurrent()

	state := factory(a)
	if err := state.OnInitialize(); err != nil {
		state.OnDestroy()
		return fmt.Errorf("state %s: %w", name, err)
	}
	a.logger.Debug("state changed", zap.String("from", a.name), zap.String("to", name))
	a.current = state
	a.name = name
	return nil
}

func (a *Application) destroyCurrent() {
	if a.current == nil {
		return
	}
	a.current.OnDestroy()
	a.current = nil
	a.name = ""
}

// Update runs one fixed step of the active state
func (a *Application) Update() error {
	if a.quit {
		return ebiten.Termination
	}
	if poller, ok := a.input.(interface{ Update() }); ok {
		poller.Update()
	}

	if a.next != "" {
		if err := a.switchState(); err != nil {
			return err
		}
	}
	if a.current == nil {
		return nil
	}

	if a.overlay != nil {
		a.overlay.BeginFrame()
		defer a.overlay.EndFrame()
	}
	if err := a.current.OnUpdate(a.deltaTime()); err != nil {
		return err
	}
	if a.quit {
		return ebiten.Termination
	}
	return nil
}

func (a *Application) deltaTime() float64 {
	return 1 / float64(max(a.cfg.Window.TPS, 1))
}

func (a *Application) Draw(screen *ebiten.Image) {
	if a.current != nil && !a.headless {
		a.current.OnDraw(screen)
	}
	if a.overlay != nil {
		a.overlay.Draw(screen)
	}
}

func (a *Application) Layout(outsideWidth, outsideHeight int) (int, int) {
	if a.overlay != nil {
		a.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close destroys the active state. Call it after ebiten.RunGame returns,
// whether or not the game ended with an error.
func (a *Application) Close() {
	a.destroyCurrent()
	a.audio.StopAll()
}
