//go:build nosound

package audio

import (
	"github.com/plus3/canrunner/config"
	"go.uber.org/zap"
)

// New returns a silent Player; this binary was built with the nosound tag.
func New(cfg config.AudioConfig, resolve func(string) string, logger *zap.Logger) (Player, error) {
	logger.Debug("audio compiled out")
	return Nop{}, nil
}
