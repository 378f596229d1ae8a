package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"quiet", LevelQuiet},
		{"", slog.LevelWarn},
		{"chatty", slog.LevelWarn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromString(tt.in), tt.in)
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelWarn, LevelFromVerbosity(slog.LevelWarn, 0, false))
	assert.Equal(t, slog.LevelInfo, LevelFromVerbosity(slog.LevelWarn, 1, false))
	assert.Equal(t, slog.LevelDebug, LevelFromVerbosity(slog.LevelWarn, 2, false))
	assert.Equal(t, slog.LevelDebug, LevelFromVerbosity(slog.LevelDebug, 1, false))
	assert.Equal(t, LevelQuiet, LevelFromVerbosity(slog.LevelDebug, 2, true))
}

func TestNew_FiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: slog.LevelWarn})

	logger.Info("hidden")
	logger.Warn("shown", "file", "db.js")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "db.js")
}

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: slog.LevelDebug, Format: "json"})

	logger.Debug("closure round", "round", 2)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"msg":"closure round"`)
	assert.Contains(t, out, `"round":2`)
}

func TestNew_QuietSuppressesErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: LevelQuiet})
	logger.Error("boom")

	assert.Empty(t, buf.String())
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	assert.False(t, Discard().Enabled(t.Context(), slog.LevelError))
}
