package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igfollowers/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"console info", &config.LoggingConfig{Level: "info", Format: "console"}, false},
		{"json debug", &config.LoggingConfig{Level: "debug", Format: "json"}, false},
		{"no color", &config.LoggingConfig{Level: "warn", NoColor: true}, false},
		{"invalid level", &config.LoggingConfig{Level: "invalid"}, true},
		{"file output", &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "app.log")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 4)
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "info message", lines[1]["message"])
	assert.Equal(t, "warn", lines[2]["level"])
	assert.Equal(t, "igfollowers", lines[3]["app"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, zerolog.InfoLevel)

	child := base.WithField("session", "abc").WithFields(map[string]interface{}{
		"files":    2,
		"duration": 1500 * time.Millisecond,
	})
	child.WithError(errors.New("boom")).Info("with fields")
	base.Info("no fields")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "abc", lines[0]["session"])
	assert.Equal(t, float64(2), lines[0]["files"])
	assert.Equal(t, "boom", lines[0]["error"])
	assert.NotContains(t, lines[1], "session")
}

func TestStructuredMethods(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel).WithField("component", "server")

	l.InfoWithFields("request", map[string]interface{}{"status": 200, "ok": true})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "server", lines[0]["component"])
	assert.Equal(t, float64(200), lines[0]["status"])
	assert.Equal(t, true, lines[0]["ok"])
}

func TestWithErrorNil(t *testing.T) {
	l := NewWithWriter(&bytes.Buffer{}, zerolog.InfoLevel)
	assert.Same(t, l, l.WithError(nil))
}

func TestGlobalLogger(t *testing.T) {
	tl := NewTestLogger()
	SetLogger(tl)
	t.Cleanup(func() { SetLogger(NewNopLogger()) })

	Info("hello")
	WithField("k", "v").Warn("careful")
	WithError(errors.New("bad")).Error("failed")

	assert.True(t, tl.HasMessage("hello"))
	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "v", warns[0].Fields["k"])
	errs := tl.GetMessagesByLevel("ERROR")
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0].Error, "bad")
}

func TestHelpers(t *testing.T) {
	tl := NewTestLogger()
	SetLogger(tl)
	t.Cleanup(func() { SetLogger(NewNopLogger()) })

	LogUpload("0123456789abcdef", "followers", 2, 10, nil)
	LogUpload("0123456789abcdef", "following", 1, 0, errors.New("bad json"))
	LogAnalysis("0123456789abcdef", 3, 3, 2, time.Millisecond)
	LogRequest("GET", "/", 500, time.Millisecond)
	LogComponentStart("server", map[string]interface{}{"port": 8501})
	LogComponentStop("server", "signal")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 6)
	assert.Equal(t, "Upload accepted", msgs[0].Message)
	assert.Equal(t, "01234567", msgs[0].Fields["session"])
	assert.Equal(t, "Upload rejected", msgs[1].Message)
	assert.Equal(t, "WARN", msgs[1].Level)
	assert.Equal(t, "Analysis completed", msgs[2].Message)
	assert.Equal(t, "ERROR", msgs[3].Level)
	assert.Equal(t, 8501, msgs[4].Fields["port"])
	assert.Equal(t, "Component stopped", msgs[5].Message)
}

func TestTestLoggerClear(t *testing.T) {
	tl := NewTestLogger()
	tl.Info("one")
	tl.WithField("a", 1).Info("two")
	assert.Len(t, tl.GetMessages(), 2)

	tl.Clear()
	assert.Empty(t, tl.GetMessages())
	assert.False(t, tl.HasMessage("one"))
}
