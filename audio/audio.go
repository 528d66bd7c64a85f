// Package audio plays sound cues and music by file path.
//
// The beep backend is compiled by default. Building with the nosound tag
// replaces New with a constructor that returns a silent Player.
package audio

// Player plays sounds identified by their path relative to the assets root.
type Player interface {
	// Play starts the sound at path. Looping sounds repeat until StopAll.
	Play(path string, loop bool) error
	StopAll()
	// IsPlaying reports whether any instance of path is still audible
	IsPlaying(path string) bool
	Close() error
}

// Nop is a Player that makes no sound.
type Nop struct{}

func (Nop) Play(string, bool) error { return nil }
func (Nop) StopAll()                {}
func (Nop) IsPlaying(string) bool   { return false }
func (Nop) Close() error            { return nil }

var _ Player = Nop{}
