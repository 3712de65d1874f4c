package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleFormatter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf)

	log.WithField("dir", "forward").WithField("agv", "panel").Warnf("move %s", "failed")

	line := buf.String()
	assert.Contains(t, line, "[WAR] move failed agv=panel dir=forward")
	assert.True(t, line[len(line)-1] == '\n')
}

func TestNewWritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, closer, err := New("debug", dir)
	require.NoError(t, err)
	log.Infof("hello %d", 1)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "panel.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INF] hello 1")
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	dir := t.TempDir()

	log, closer, err := New("loud", dir)
	require.NoError(t, err)
	defer closer.Close()
	log.Debugf("hidden")
	log.Infof("shown")

	data, err := os.ReadFile(filepath.Join(dir, "panel.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewCloseReleasesLogFile(t *testing.T) {
	dir := t.TempDir()

	log, closer, err := New("info", dir)
	require.NoError(t, err)
	log.Infof("before close")
	require.NoError(t, closer.Close())

	// 두 번째 Close는 이미 닫힌 파일이라 에러
	assert.ErrorIs(t, closer.Close(), os.ErrClosed)

	data, err := os.ReadFile(filepath.Join(dir, "panel.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "before close")
}

func TestNewWithoutDirHasNoopCloser(t *testing.T) {
	log, closer, err := New("info", "")
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.NoError(t, closer.Close())
	assert.NoError(t, closer.Close())
}
