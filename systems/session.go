// Package systems holds the gameplay systems run by the play state's scheduler.
package systems

import (
	"github.com/google/uuid"
	"github.com/plus3/canrunner/audio"
	"github.com/plus3/canrunner/config"
	"go.uber.org/zap"
)

// Session is the score of one run. It lives in the world as a singleton while
// a level is played.
type Session struct {
	ID     uuid.UUID
	Level  config.LevelConfig
	Cans   int
	Hearts int
	Over   bool
}

// NewSession starts a run of level with a fresh id, no cans and the level's hearts
func NewSession(level config.LevelConfig) Session {
	return Session{
		ID:     uuid.New(),
		Level:  level,
		Hearts: level.Hearts,
	}
}

// RunnerStatus is the controller's state as seen by other systems.
// The controller rewrites it every frame.
type RunnerStatus struct {
	Jump   JumpState
	Slide  SlideState
	Motion MotionState
}

func playCue(player audio.Player, logger *zap.Logger, path string) {
	if player == nil || path == "" {
		return
	}
	if err := player.Play(path, false); err != nil {
		logger.Warn("sound cue failed", zap.String("path", path), zap.Error(err))
	}
}
