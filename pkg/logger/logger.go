// Package logger bootstraps the zap loggers used across bitvault. It
// centralizes the development/production split so every package gets the
// same encoder config and field conventions instead of constructing its
// own *zap.Logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger scoped to service, suitable for wiring
// into options.WithLogger. It uses zap's development preset (human
// readable, stack traces on warn+) since bitvault is a library meant to be
// embedded rather than a long-running server with its own log pipeline.
func New(service string) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return log.Sugar().Named(service), nil
}

// NewNop returns a logger that discards everything. bitvault.Open falls
// back to this when no Logger option is supplied and New fails, so the
// engine never has to nil-check before logging.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
