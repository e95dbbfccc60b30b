package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facescope/internal/config"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	l, err := NewLogger(&config.Config{LogDirectory: filepath.Join(t.TempDir(), "logs"), LogLevel: "info"})
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func readLog(t *testing.T, l *Logger, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(l.Directory(), name))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestLogger_WritesPerLevelFiles(t *testing.T) {
	l := newTestLogger(t)

	l.Info("camera %d opened", 0)
	l.Warning("queue %s", "full")
	l.Error("analysis failed: %v", "timeout")

	assert.Contains(t, readLog(t, l, "info.log"), "camera 0 opened")
	assert.Contains(t, readLog(t, l, "warning.log"), "queue full")
	assert.Contains(t, readLog(t, l, "error.log"), "analysis failed: timeout")

	assert.NotContains(t, readLog(t, l, "info.log"), "queue full")
	assert.NotContains(t, readLog(t, l, "warning.log"), "camera 0 opened")
}

func TestLogger_CleanLogs(t *testing.T) {
	l := newTestLogger(t)

	l.Error("first failure")
	require.Contains(t, readLog(t, l, "error.log"), "first failure")

	require.NoError(t, l.CleanLogs("error.log"))
	assert.Empty(t, readLog(t, l, "error.log"))

	// po wyczyszczeniu plik dalej przyjmuje wpisy
	l.Error("second failure")
	content := readLog(t, l, "error.log")
	assert.Contains(t, content, "second failure")
	assert.NotContains(t, content, "first failure")
}

func TestLogger_CleanLogs_MissingFile(t *testing.T) {
	l := newTestLogger(t)
	assert.NoError(t, l.CleanLogs("warning.log"))
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored")
	l.Warning("ignored")
	l.Error("ignored")
	l.Close()
}

func TestLogger_Close(t *testing.T) {
	l := newTestLogger(t)
	l.Info("before close")
	assert.False(t, l.Closed())

	l.Close()
	assert.True(t, l.Closed())
	assert.Contains(t, readLog(t, l, "info.log"), "before close")

	// drugie zamknięcie nic nie psuje
	l.Close()
	assert.True(t, l.Closed())
}
