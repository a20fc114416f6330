package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	l := New(slog.LevelWarn)
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), slog.LevelError))
	assert.NotNil(t, NewNop())
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, slog.LevelInfo, FormatJSON).Info("saved", "error", "boom")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "saved", rec["msg"])
	assert.Equal(t, "boom", rec["err"])
	assert.NotContains(t, rec, "error")

	buf.Reset()
	NewWriter(&buf, slog.LevelInfo, "yaml").Warn("fallback", "error", "x")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "err=x")
}
