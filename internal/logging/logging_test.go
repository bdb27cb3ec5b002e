package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf, Level: "warn", Format: "json"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "id", "17")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "17", rec["id"])
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"", "tint", "text"} {
		var buf bytes.Buffer
		logger, err := New(Config{Writer: &buf, Format: format})
		require.NoError(t, err, format)
		logger.Info("hello")
		assert.Contains(t, buf.String(), "hello", format)
	}

	_, err := New(Config{Format: "xml"})
	assert.Error(t, err)
	_, err = New(Config{Level: "chatty"})
	assert.Error(t, err)
}
