package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string, format LogFormat) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := &Logger{
		level:  ParseLogLevel(level),
		fields: map[string]interface{}{},
		now:    func() time.Time { return time.Date(2015, 10, 10, 12, 0, 0, 0, time.UTC) },
	}
	l.AddOutput(NewConsoleOutput(&buf, format))
	return l, &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevel(tt.input))
		})
	}
}

func TestLoggerTextFormat(t *testing.T) {
	l, buf := newBufferLogger("info", FormatText)

	l.Debug("hidden")
	l.Info("rendered chart", F("layers", 2), F("bands", 2), F("file", "out.svg"))
	l.Warnf("skipped %d rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2015/10/10 12:00:00 [INFO] rendered chart bands=2 file=out.svg layers=2", lines[0])
	assert.Equal(t, "2015/10/10 12:00:00 [WARN] skipped 3 rows", lines[1])
}

func TestLoggerJSONFormat(t *testing.T) {
	l, buf := newBufferLogger("debug", FormatJSON)

	l.With(F("component", "parser")).Debug("loaded", F("samples", 6))

	var entry LogEntry
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "DEBUG", entry.Level)
	assert.Equal(t, "loaded", entry.Message)
	assert.Equal(t, "parser", entry.Fields["component"])
	assert.EqualValues(t, 6, entry.Fields["samples"])
}

func TestLoggerSetLevel(t *testing.T) {
	l, buf := newBufferLogger("error", FormatText)

	l.Info("dropped")
	assert.Empty(t, buf.String())

	l.SetLevel(LevelDebug)
	l.Debug("kept")
	assert.Contains(t, buf.String(), "[DEBUG] kept")
}

func TestNewLoggerCreatesLogDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := NewLogger(LoggerOptions{Level: "info", File: path})
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] hello")
}

func TestGlobalLogger(t *testing.T) {
	l, buf := newBufferLogger("debug", FormatText)
	SetLogger(l)
	defer SetLogger(nil)

	LogDebugf("parsed %d rows", 4)
	LogError("boom", F("line", 7))

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] parsed 4 rows")
	assert.Contains(t, out, "[ERROR] boom line=7")

	SetLogger(nil)
	LogInfo("nowhere")
	assert.NotContains(t, buf.String(), "nowhere")
}
