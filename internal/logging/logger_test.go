package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: FormatText, Output: &buf})

	l.WithComponent("registry").Debug("registered", "id", "editor.save")

	out := buf.String()
	assert.Contains(t, out, "registered")
	assert.Contains(t, out, "component=registry")
	assert.Contains(t, out, "id=editor.save")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	l.With("session", "abc").Info("opened")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "opened", rec["msg"])
	assert.Equal(t, "abc", rec["session"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})

	l.Info("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, l.Enabled(slog.LevelInfo))
	assert.True(t, l.Enabled(slog.LevelError))

	l.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keycmd.log")
	l := New(Config{Level: slog.LevelInfo, FilePath: path, MaxSizeMB: 1, MaxBackups: 1})
	l.Info("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("dropped")
	assert.NoError(t, l.Close())
	assert.False(t, l.Enabled(slog.LevelError))
}

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("xml"))
}
