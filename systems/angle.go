package systems

import "math"

const twoPi = 2 * math.Pi

// WrapAngle maps radians into [0, 2π)
func WrapAngle(a float32) float32 {
	w := math.Mod(float64(a), twoPi)
	if w < 0 {
		w += twoPi
	}
	if r := float32(w); r < float32(twoPi) {
		return r
	}
	return 0
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
