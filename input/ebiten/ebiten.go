// Package ebiten reads input.Device state from the ebiten window.
package ebiten

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/canrunner/input"
)

var keys = [input.KeyCount][]ebiten.Key{
	input.KeyW:      {ebiten.KeyW},
	input.KeyA:      {ebiten.KeyA},
	input.KeyS:      {ebiten.KeyS},
	input.KeyD:      {ebiten.KeyD},
	input.KeyQ:      {ebiten.KeyQ},
	input.KeyE:      {ebiten.KeyE},
	input.KeyUp:     {ebiten.KeyArrowUp},
	input.KeyDown:   {ebiten.KeyArrowDown},
	input.KeyLeft:   {ebiten.KeyArrowLeft},
	input.KeyRight:  {ebiten.KeyArrowRight},
	input.KeySpace:  {ebiten.KeySpace},
	input.KeyEnter:  {ebiten.KeyEnter, ebiten.KeyNumpadEnter},
	input.KeyEscape: {ebiten.KeyEscape},
	input.KeyShift:  {ebiten.KeyShiftLeft, ebiten.KeyShiftRight},
}

var buttons = [input.MouseButtonCount]ebiten.MouseButton{
	input.MouseButtonLeft:   ebiten.MouseButtonLeft,
	input.MouseButtonRight:  ebiten.MouseButtonRight,
	input.MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

// Device implements input.Device. Update must be called once at the start of
// every ebiten Update so cursor deltas and wheel offsets are per frame.
type Device struct {
	position mgl32.Vec2
	delta    mgl32.Vec2
	scroll   mgl32.Vec2
	started  bool
}

func New() *Device {
	return &Device{}
}

func (d *Device) Update() {
	x, y := ebiten.CursorPosition()
	next := mgl32.Vec2{float32(x), float32(y)}
	if d.started {
		d.delta = next.Sub(d.position)
	}
	d.position = next
	d.started = true

	wx, wy := ebiten.Wheel()
	d.scroll = mgl32.Vec2{float32(wx), float32(wy)}
}

func (d *Device) Pressed(key input.Key) bool {
	for _, k := range keys[key] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func (d *Device) JustPressed(key input.Key) bool {
	for _, k := range keys[key] {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func (d *Device) ButtonPressed(b input.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(buttons[b])
}

func (d *Device) ButtonJustPressed(b input.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(buttons[b])
}

func (d *Device) ButtonJustReleased(b input.MouseButton) bool {
	return inpututil.IsMouseButtonJustReleased(buttons[b])
}

func (d *Device) Position() mgl32.Vec2 { return d.position }
func (d *Device) Delta() mgl32.Vec2    { return d.delta }
func (d *Device) Scroll() mgl32.Vec2   { return d.scroll }

func (d *Device) Locked() bool {
	return ebiten.CursorMode() == ebiten.CursorModeCaptured
}

func (d *Device) Lock() {
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
}

func (d *Device) Unlock() {
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
}

var _ input.Device = (*Device)(nil)
