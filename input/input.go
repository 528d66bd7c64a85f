// Package input describes the keyboard and mouse surface the game reads each frame.
// The ebiten subpackage implements it for a real window; Fake drives tests and
// headless runs.
package input

import "github.com/go-gl/mathgl/mgl32"

type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEnter
	KeyEscape
	KeyShift

	// KeyCount is the number of keys the game reads
	KeyCount
)

var keyNames = [KeyCount]string{
	KeyW:      "W",
	KeyA:      "A",
	KeyS:      "S",
	KeyD:      "D",
	KeyQ:      "Q",
	KeyE:      "E",
	KeyUp:     "Up",
	KeyDown:   "Down",
	KeyLeft:   "Left",
	KeyRight:  "Right",
	KeySpace:  "Space",
	KeyEnter:  "Enter",
	KeyEscape: "Escape",
	KeyShift:  "Shift",
}

func (k Key) String() string {
	if k < 0 || k >= KeyCount {
		return "Unknown"
	}
	return keyNames[k]
}

// ParseKey looks a key up by its name
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return 0, false
}

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle

	MouseButtonCount
)

type Keyboard interface {
	// Pressed reports whether the key is held this frame
	Pressed(key Key) bool
	// JustPressed reports whether the key went down this frame
	JustPressed(key Key) bool
}

type Mouse interface {
	ButtonPressed(button MouseButton) bool
	ButtonJustPressed(button MouseButton) bool
	ButtonJustReleased(button MouseButton) bool
	// Position is the cursor position in window pixels, origin top-left
	Position() mgl32.Vec2
	// Delta is the cursor movement since the previous frame
	Delta() mgl32.Vec2
	Scroll() mgl32.Vec2

	Locked() bool
	Lock()
	Unlock()
}

// Device is the combined input surface handed to systems and states.
type Device interface {
	Keyboard
	Mouse
}
