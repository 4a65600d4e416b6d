package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entries decodes one JSON object per output line
func entries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line: %s", line)
		out = append(out, entry)
	}
	return out
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *Logger)
		want  bool
		level string
	}{
		{
			name:  "info message",
			log:   func(l *Logger) { l.Info("test message", Fields{"key": "value"}) },
			want:  true,
			level: "INFO",
		},
		{
			name: "debug below threshold",
			log:  func(l *Logger) { l.Debug("debug message", nil) },
			want: false,
		},
		{
			name:  "warn message",
			log:   func(l *Logger) { l.Warn("careful", nil) },
			want:  true,
			level: "WARN",
		},
		{
			name:  "error with err",
			log:   func(l *Logger) { l.Error("error occurred", nil, errors.New("test error")) },
			want:  true,
			level: "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(New(LevelInfo, &buf))

			got := entries(t, &buf)
			if !tt.want {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.level, got[0]["level"])
		})
	}
}

func TestLogger_EntryShape(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf)

	l.Error("send failed", Fields{"status": 500, "raid_id": "abc"}, errors.New("boom"))

	got := entries(t, &buf)
	require.Len(t, got, 1)

	entry := got[0]
	assert.Equal(t, "send failed", entry["message"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "abc", entry["raid_id"])
	assert.EqualValues(t, 500, entry["status"])
	assert.NotEmpty(t, entry["timestamp"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf).With(Fields{"run_id": "r-1"})

	l.Info("first", nil)
	l.Info("second", Fields{"n": 2})

	got := entries(t, &buf)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, "r-1", e["run_id"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" DEBUG ": LevelDebug,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(New(LevelWarn, &buf))

	Info("dropped", nil)
	Warn("kept", Fields{"a": 1})
	Error("also kept", nil, nil)
	Debug("dropped too", nil)

	got := entries(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "kept", got[0]["message"])
	assert.Equal(t, "also kept", got[1]["message"])
	_, hasErr := got[1]["error"]
	assert.False(t, hasErr)
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("nothing", Fields{"x": 1})
	assert.NoError(t, l.Sync())
}
