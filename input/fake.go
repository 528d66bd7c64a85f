package input

import "github.com/go-gl/mathgl/mgl32"

// Fake is a scripted Device. Press and Release change the held state;
// Step starts a new frame, clearing edges, delta and scroll.
type Fake struct {
	keys        [KeyCount]bool
	keysPressed [KeyCount]bool

	buttons         [MouseButtonCount]bool
	buttonsPressed  [MouseButtonCount]bool
	buttonsReleased [MouseButtonCount]bool

	position mgl32.Vec2
	delta    mgl32.Vec2
	scroll   mgl32.Vec2
	locked   bool

	// LockCount and UnlockCount record pointer lock calls
	LockCount   int
	UnlockCount int
}

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Press(keys ...Key) {
	for _, k := range keys {
		if !f.keys[k] {
			f.keysPressed[k] = true
		}
		f.keys[k] = true
	}
}

func (f *Fake) Release(keys ...Key) {
	for _, k := range keys {
		f.keys[k] = false
	}
}

func (f *Fake) PressButton(b MouseButton) {
	if !f.buttons[b] {
		f.buttonsPressed[b] = true
	}
	f.buttons[b] = true
}

func (f *Fake) ReleaseButton(b MouseButton) {
	if f.buttons[b] {
		f.buttonsReleased[b] = true
	}
	f.buttons[b] = false
}

// MoveTo sets the cursor position and accumulates the movement into Delta
func (f *Fake) MoveTo(x, y float32) {
	next := mgl32.Vec2{x, y}
	f.delta = f.delta.Add(next.Sub(f.position))
	f.position = next
}

func (f *Fake) Wheel(dx, dy float32) {
	f.scroll = f.scroll.Add(mgl32.Vec2{dx, dy})
}

// Step ends the current frame
func (f *Fake) Step() {
	f.keysPressed = [KeyCount]bool{}
	f.buttonsPressed = [MouseButtonCount]bool{}
	f.buttonsReleased = [MouseButtonCount]bool{}
	f.delta = mgl32.Vec2{}
	f.scroll = mgl32.Vec2{}
}

func (f *Fake) Pressed(key Key) bool                  { return f.keys[key] }
func (f *Fake) JustPressed(key Key) bool              { return f.keysPressed[key] }
func (f *Fake) ButtonPressed(b MouseButton) bool      { return f.buttons[b] }
func (f *Fake) ButtonJustPressed(b MouseButton) bool  { return f.buttonsPressed[b] }
func (f *Fake) ButtonJustReleased(b MouseButton) bool { return f.buttonsReleased[b] }
func (f *Fake) Position() mgl32.Vec2                  { return f.position }
func (f *Fake) Delta() mgl32.Vec2                     { return f.delta }
func (f *Fake) Scroll() mgl32.Vec2                    { return f.scroll }
func (f *Fake) Locked() bool                          { return f.locked }

func (f *Fake) Lock() {
	f.locked = true
	f.LockCount++
}

func (f *Fake) Unlock() {
	f.locked = false
	f.UnlockCount++
}

var _ Device = (*Fake)(nil)
