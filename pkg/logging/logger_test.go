package logging

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunID_Stable(t *testing.T) {
	assert.Equal(t, RunID(), RunID())
	assert.NotEmpty(t, RunID())
}

func TestLogger_WritesToRunFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	logger, err := New("test-component", LevelDebug)
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof("hello %s", "world")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[test-component]")
	assert.Contains(t, string(data), "[INFO]")
	assert.Contains(t, string(data), "hello world")
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	logger, err := New("filtered", LevelWarn)
	require.NoError(t, err)

	logger.Debugf("not recorded")
	logger.Infof("not recorded either")
	logger.Warnf("recorded warning")
	logger.Errorf("recorded error")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "not recorded")
	assert.Contains(t, string(data), "recorded warning")
	assert.Contains(t, string(data), "recorded error")
}

func TestLogger_SharedRunFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	first, err := New("alpha", LevelDebug)
	require.NoError(t, err)
	second, err := New("beta", LevelDebug)
	require.NoError(t, err)

	first.Infof("from alpha")
	second.Infof("from beta")
	require.NoError(t, first.Close())
	require.NoError(t, second.Close())

	assert.Equal(t, first.LogPath(), second.LogPath())
	assert.True(t, strings.Contains(first.LogPath(), RunID()))

	data, err := os.ReadFile(first.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "from alpha")
	assert.Contains(t, string(data), "from beta")
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
}
