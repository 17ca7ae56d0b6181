package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON logger writing to path. The dashboard owns the terminal,
// so stderr is only added when toStderr is set (headless server mode).
// An empty path with toStderr unset yields a no-op logger.
func New(path string, debug, toStderr bool) (*zap.Logger, error) {
	var outputs []string
	if path != "" {
		outputs = append(outputs, path)
	}
	if toStderr {
		outputs = append(outputs, "stderr")
	}
	if len(outputs) == 0 {
		return zap.NewNop(), nil
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.OutputPaths = outputs
	cfg.ErrorOutputPaths = outputs
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil
	return cfg.Build()
}
