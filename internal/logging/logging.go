package logging

import (
	"github.com/blinklabs-io/praos-ledger/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin alias so callers don't need to import zap directly.
type Logger = zap.SugaredLogger

var globalLogger *Logger

// Configure (re)builds the global logger from the current config.
func Configure() {
	cfg := config.GetConfig()
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	logger, err := zapCfg.Build()
	if err != nil {
		// Fall back to a basic logger rather than leaving globalLogger nil
		logger = zap.NewExample()
	}
	globalLogger = logger.Sugar().With("component", "ledger-core")
}

// GetLogger returns the global logger, configuring it with defaults on
// first use.
func GetLogger() *Logger {
	if globalLogger == nil {
		Configure()
	}
	return globalLogger
}

// Named returns a child logger tagged with the given component name.
func Named(component string) *Logger {
	return GetLogger().With("component", component)
}
