package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarluq/rolegate/internal/config"
)

func TestNewLoggerToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rolegate.log")
	logger, closer, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"message":"kept"`)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewLoggerBadOutput(t *testing.T) {
	t.Parallel()

	_, _, err := NewLogger(config.LoggingConfig{Output: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestUsePretty(t *testing.T) {
	t.Parallel()

	assert.True(t, usePretty(config.LoggingConfig{Pretty: true}, nil))
	assert.True(t, usePretty(config.LoggingConfig{Format: "pretty"}, nil))
	assert.False(t, usePretty(config.LoggingConfig{Format: "json"}, os.Stdout))
	assert.False(t, usePretty(config.LoggingConfig{Format: "console"}, nil))
}

func TestFormatLevel(t *testing.T) {
	t.Parallel()

	assert.Contains(t, formatLevel("info"), "INF")
	assert.Equal(t, "trace", formatLevel("trace"))
	assert.Empty(t, formatLevel(42))
	assert.Equal(t, "-> hi", formatMessage("hi"))
	assert.Empty(t, formatMessage(nil))
}

func TestAddRequestID(t *testing.T) {
	t.Parallel()

	ctx := AddRequestID(context.Background(), "fixed")
	assert.Equal(t, "fixed", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}
