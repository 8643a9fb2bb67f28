// Package telemetry provides the server's structured logging, Prometheus
// metrics, and OpenTelemetry tracer setup. For logging, the core packages
// (round, controller) depend only on small Logger interfaces they define
// themselves, which the zap-backed logger here satisfies; cmd/server wires
// the two together. The controller takes its tracer from Tracer, and the
// transport and cmd/server update the metrics directly.
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger for the given environment. development
// selects a human-readable, colorized console encoder; otherwise a
// JSON production encoder with ISO8601 timestamps is used.
func NewLogger(development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// NewSugaredLogger wraps NewLogger's result in a SugaredLogger, which
// already satisfies both round.Logger and controller.Logger (Infow/Warnw)
// without any adapter type.
func NewSugaredLogger(development bool) (*zap.SugaredLogger, error) {
	l, err := NewLogger(development)
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
