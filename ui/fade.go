package ui

import "time"

// Smoothstep is the cubic Hermite ramp from 0 at edge0 to 1 at edge1
func Smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	t = max(0, min(t, 1))
	return t * t * (3 - 2*t)
}

// Fade ramps from 0 to 1 over Duration since it was created or reset.
type Fade struct {
	Duration time.Duration
	elapsed  float64
}

func NewFade(d time.Duration) *Fade {
	return &Fade{Duration: d}
}

// Advance adds dt seconds and returns the new level
func (f *Fade) Advance(dt float64) float32 {
	f.elapsed += dt
	return f.Level()
}

func (f *Fade) Level() float32 {
	return Smoothstep(0, float32(f.Duration.Seconds()), float32(f.elapsed))
}

func (f *Fade) Reset() {
	f.elapsed = 0
}
