package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetup_ReplacesGlobals(t *testing.T) {
	logger, cleanup, err := Setup("production", "warn")
	require.NoError(t, err)
	defer cleanup()

	assert.Same(t, logger, zap.L())
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, _, err := Setup("development", "loud")
	assert.Error(t, err)
}
