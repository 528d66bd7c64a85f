// Package ui has the screen-space pieces of the menus: clickable rectangles,
// hover edge detection and the fade-in ramp. Coordinates are pixels with the
// origin at the top-left corner of the screen.
package ui

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Button is a clickable axis-aligned rectangle
type Button struct {
	Position mgl32.Vec2
	Size     mgl32.Vec2
	Action   func()
}

// IsInside reports whether p lies in the button's rectangle, edges included
func (b *Button) IsInside(p mgl32.Vec2) bool {
	return b.Position.X() <= p.X() && p.X() <= b.Position.X()+b.Size.X() &&
		b.Position.Y() <= p.Y() && p.Y() <= b.Position.Y()+b.Size.Y()
}

// LocalToWorld maps the unit square onto the button's rectangle
func (b *Button) LocalToWorld() mgl32.Mat4 {
	return mgl32.Translate3D(b.Position.X(), b.Position.Y(), 0).
		Mul4(mgl32.Scale3D(b.Size.X(), b.Size.Y(), 1))
}

type ButtonSet []Button

// Click runs the action of every button under p. It does nothing unless
// pressed is a fresh press edge, so holding the button never repeats an action.
// It returns the number of actions run.
func (s ButtonSet) Click(p mgl32.Vec2, pressed bool) int {
	if !pressed {
		return 0
	}
	n := 0
	for i := range s {
		if s[i].IsInside(p) && s[i].Action != nil {
			s[i].Action()
			n++
		}
	}
	return n
}

// Hovered returns the buttons under p
func (s ButtonSet) Hovered(p mgl32.Vec2) []*Button {
	var out []*Button
	for i := range s {
		if s[i].IsInside(p) {
			out = append(out, &s[i])
		}
	}
	return out
}

// HoverTracker detects the moment the cursor starts hovering any button.
type HoverTracker struct {
	hovering bool
}

// Update records whether anything is hovered this frame and reports true only
// on the frame hovering begins.
func (h *HoverTracker) Update(hovering bool) bool {
	entered := hovering && !h.hovering
	h.hovering = hovering
	return entered
}

func (h *HoverTracker) Hovering() bool { return h.hovering }
