package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.base)
	assert.NotNil(t, logger.sugar)
}

func TestNewWithOptions_Level(t *testing.T) {
	logger := NewWithOptions("warn", false)
	assert.False(t, logger.Zap().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Zap().Core().Enabled(zapcore.WarnLevel))
}

func TestNewWithOptions_UnknownLevelDefaultsToInfo(t *testing.T) {
	logger := NewWithOptions("chatty", true)
	assert.False(t, logger.Zap().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Zap().Core().Enabled(zapcore.InfoLevel))
}

func TestLogger_Formatting(t *testing.T) {
	logger := NewNop()

	assert.NotPanics(t, func() {
		logger.Info("Article %d liked by %s", 42, "abc123")
		logger.Error("Failed to toggle like %d: %s", 42, "timeout")
		logger.Warn("Warning: %s count is %d", "likes", 5)
		logger.Debug("debug %v", true)
	})
}

func TestLogger_With(t *testing.T) {
	logger := NewNop().With("service", "like")
	assert.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("child") })
}
