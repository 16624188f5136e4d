package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLoggerLevels(t *testing.T) {
	defer func() { logger = nil }()

	require.NoError(t, InitLogger("production", ""))
	assert.True(t, GetLogger().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, GetLogger().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, InitLogger("development", ""))
	assert.True(t, GetLogger().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, InitLogger("production", "warn"))
	assert.False(t, GetLogger().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, GetLogger().Core().Enabled(zapcore.WarnLevel))
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	defer func() { logger = nil }()

	assert.Error(t, InitLogger("production", "chatty"))
}

func TestComponentLoggerIsNamed(t *testing.T) {
	assert.NotNil(t, Component("vendor"))
	assert.NotNil(t, GetLogger())
}
