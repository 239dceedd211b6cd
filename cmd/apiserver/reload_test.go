package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
)

func TestWatchLogLevel_RaisesVerbosityOnEdit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	logPath := filepath.Join(dir, "apiserver.log")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: info\n"), 0o644))

	logger, err := logging.NewLogger(logging.LogConfig{Level: "info", OutputPaths: []string{logPath}})
	require.NoError(t, err)
	require.NoError(t, watchLogLevel(cfgPath, logger))

	logger.Debug("hidden at info")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: debug\n"), 0o644))

	require.Eventually(t, func() bool {
		logger.Debug("visible at debug")
		_ = logger.Sync()
		data, _ := os.ReadFile(logPath)
		return strings.Contains(string(data), "visible at debug")
	}, 5*time.Second, 50*time.Millisecond)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden at info")
	assert.Contains(t, string(data), "Log level reloaded")
}

func TestWatchLogLevel_MissingFile(t *testing.T) {
	err := watchLogLevel(filepath.Join(t.TempDir(), "absent.yaml"), logging.NewNopLogger())
	assert.Error(t, err)
}

//Personal.AI order the ending
