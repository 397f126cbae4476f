package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestSetup_ConsoleJSON(t *testing.T) {
	var buf bytes.Buffer
	run, err := Setup(Options{Level: "info", Format: "json", Console: &buf})
	require.NoError(t, err)
	defer func() { _ = run.Close() }()

	_, err = uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Empty(t, run.FilePath)

	ForTool(run.Logger, "select").Info("processing file", "file", "a.pdf")
	run.Logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "processing file", rec["msg"])
	assert.Equal(t, "select", rec["tool"])
	assert.Equal(t, run.ID, rec["run_id"])
	assert.Equal(t, "a.pdf", rec["file"])
}

func TestSetup_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	run, err := Setup(Options{Level: "error", Verbose: true, Format: "text", Console: &buf})
	require.NoError(t, err)

	run.Logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestSetup_TeesToLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer

	run, err := Setup(Options{Level: "info", Dir: dir, Timestamp: "20240101_120000", Console: &buf})
	require.NoError(t, err)

	run.Logger.Warn("no pdf files found")
	require.NoError(t, run.Close())
	require.NoError(t, run.Close())

	assert.Equal(t, filepath.Join(dir, "20240101_120000_log.log"), run.FilePath)
	data, err := os.ReadFile(run.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "no pdf files found")
	assert.Contains(t, buf.String(), "no pdf files found")
}

func TestSetup_DirRequiresTimestamp(t *testing.T) {
	_, err := Setup(Options{Dir: t.TempDir()})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
