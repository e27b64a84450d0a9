package common_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/application/common"
	"github.com/andrescamacho/colony-engine/internal/application/mediator"
)

type entry struct {
	level    string
	message  string
	metadata map[string]interface{}
}

type captureLogger struct {
	entries []entry
}

func (l *captureLogger) Log(level, message string, metadata map[string]interface{}) {
	l.entries = append(l.entries, entry{level: level, message: message, metadata: metadata})
}

type playerRequest struct {
	PlayerKey string
}

func TestRequestLoggingMiddleware_BindsPlayerToContextLogger(t *testing.T) {
	// Arrange
	logger := &captureLogger{}
	mw := common.RequestLoggingMiddleware(logger)

	next := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		common.LoggerFromContext(ctx).Log(common.LevelInfo, "inside", map[string]interface{}{"step": 1})
		return "ok", nil
	}

	// Act
	response, err := mw(context.Background(), &playerRequest{PlayerKey: " 0xABC "}, next)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ok", response)
	require.Len(t, logger.entries, 2)

	assert.Equal(t, "inside", logger.entries[0].message)
	assert.Equal(t, "0xabc", logger.entries[0].metadata["player"])
	assert.Equal(t, 1, logger.entries[0].metadata["step"])

	assert.Equal(t, common.LevelDebug, logger.entries[1].level)
	assert.Equal(t, "playerRequest", logger.entries[1].metadata["request"])
}

func TestRequestLoggingMiddleware_LogsFailures(t *testing.T) {
	// Arrange
	logger := &captureLogger{}
	mw := common.RequestLoggingMiddleware(logger)
	boom := errors.New("boom")

	// Act
	_, err := mw(context.Background(), struct{}{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, boom
	})

	// Assert
	assert.ErrorIs(t, err, boom)
	require.Len(t, logger.entries, 1)
	assert.Equal(t, common.LevelWarn, logger.entries[0].level)
	assert.Equal(t, "boom", logger.entries[0].metadata["error"])
	_, hasPlayer := logger.entries[0].metadata["player"]
	assert.False(t, hasPlayer)
}

func TestWithFields_EntryFieldsWin(t *testing.T) {
	// Arrange
	logger := &captureLogger{}
	bound := common.WithFields(logger, map[string]interface{}{"player": "a", "track": "research"})

	// Act
	bound.Log(common.LevelInfo, "msg", map[string]interface{}{"player": "b"})

	// Assert
	require.Len(t, logger.entries, 1)
	assert.Equal(t, "b", logger.entries[0].metadata["player"])
	assert.Equal(t, "research", logger.entries[0].metadata["track"])
}

func TestLoggerFromContext_FallsBackToNoOp(t *testing.T) {
	assert.NotPanics(t, func() {
		common.LoggerFromContext(context.Background()).Log(common.LevelInfo, "dropped", nil)
	})
}
