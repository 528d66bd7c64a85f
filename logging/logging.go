// Package logging builds the zap loggers shared by the game and its tools.
package logging

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "CANRUNNER_"

// New creates a zap logger from cfg
func New(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	if cfg.EnableSampling {
		zapConfig.Sampling = &zap.SamplingConfig{
			Initial:    cfg.SampleInitial,
			Thereafter: cfg.SampleThereafter,
		}
	} else {
		zapConfig.Sampling = nil
	}

	return zapConfig.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// WithEnv applies CANRUNNER_* environment overrides on top of cfg.
// CANRUNNER_ENV=development switches to the development preset first.
func WithEnv(cfg Config) Config {
	return withLookup(cfg, os.Getenv)
}

func withLookup(cfg Config, getenv func(string) string) Config {
	if strings.EqualFold(getenv(envPrefix+"ENV"), "development") {
		cfg = DevelopmentConfig()
	}

	if level := getenv(envPrefix + "LOG_LEVEL"); level != "" {
		cfg.Level = level
	}

	if format := getenv(envPrefix + "LOG_FORMAT"); format != "" {
		cfg.Format = format
	}

	if sampling := getenv(envPrefix + "LOG_SAMPLING"); sampling != "" {
		cfg.EnableSampling = strings.ToLower(sampling) == "true"
	}

	if initial := getenv(envPrefix + "LOG_SAMPLE_INITIAL"); initial != "" {
		if val, err := strconv.Atoi(initial); err == nil {
			cfg.SampleInitial = val
		}
	}

	if thereafter := getenv(envPrefix + "LOG_SAMPLE_THEREAFTER"); thereafter != "" {
		if val, err := strconv.Atoi(thereafter); err == nil {
			cfg.SampleThereafter = val
		}
	}

	return cfg
}

// OrNop returns logger, or a no-op logger when it is nil
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
