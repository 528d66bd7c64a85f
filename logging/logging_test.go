package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	logger, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	logger, err = New(DevelopmentConfig())
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"

	logger, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestWithEnv(t *testing.T) {
	env := map[string]string{
		"CANRUNNER_LOG_LEVEL":             "warn",
		"CANRUNNER_LOG_FORMAT":            "console",
		"CANRUNNER_LOG_SAMPLING":          "false",
		"CANRUNNER_LOG_SAMPLE_INITIAL":    "5",
		"CANRUNNER_LOG_SAMPLE_THEREAFTER": "not-a-number",
	}
	cfg := withLookup(DefaultConfig(), func(key string) string { return env[key] })

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.False(t, cfg.EnableSampling)
	assert.Equal(t, 5, cfg.SampleInitial)
	assert.Equal(t, DefaultConfig().SampleThereafter, cfg.SampleThereafter)
}

func TestWithEnvDevelopmentPreset(t *testing.T) {
	t.Setenv("CANRUNNER_ENV", "Development")
	t.Setenv("CANRUNNER_LOG_LEVEL", "")

	cfg := WithEnv(DefaultConfig())
	assert.Equal(t, DevelopmentConfig(), cfg)
}

func TestContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("stored", zap.String("scene", "level1"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "stored", logs[0].Message)
	assert.Equal(t, "level1", logs[0].ContextMap()["scene"])

	// No logger stored: a no-op logger comes back
	assert.NotPanics(t, func() { FromContext(context.Background()).Info("dropped") })
	assert.NotNil(t, OrNop(nil))
	assert.Same(t, logger, OrNop(logger))
}
