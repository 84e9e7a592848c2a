package conf

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the json production logger used everywhere, with a service field attached.
func NewLogger(serviceName string, level string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewExample()
		logger.Warn("Falling back to example logger", zap.Error(err))
	}
	return logger.With(zap.String("service", serviceName)).Sugar()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ProvideLogger hands the environment's logger to the components wired by fx.
func ProvideLogger(env *Env) *zap.SugaredLogger {
	return env.Logger
}
