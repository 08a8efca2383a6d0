// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup builds a logger for the given environment and level and installs it
// as the zap global. The returned function flushes buffered entries.
func Setup(appEnv, level string) (*zap.Logger, func(), error) {
	var zapConfig zap.Config
	if appEnv == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zapConfig.Build(zap.AddCaller())
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(logger)

	return logger, func() {
		_ = logger.Sync()
		restore()
	}, nil
}
