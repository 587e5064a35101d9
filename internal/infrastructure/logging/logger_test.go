package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), in)
	}
}

func TestNewLoggerTo_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerTo(&buf, config.LoggingConfig{Level: "warn", Format: "json"})

	logger.Info("expanded project", "steps", 9)
	logger.Warn("feed unavailable", "character_id", 9002)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "feed unavailable", entry["msg"])
	assert.Equal(t, float64(9002), entry["character_id"])
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.log")
	logger, closer, err := logging.NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "file", FilePath: path})
	require.NoError(t, err)

	logger.Info("imported reference data", "items", 6)
	require.NoError(t, closer.Close())

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "items=6")
}

func TestNewLogger_UnwritableFile(t *testing.T) {
	_, _, err := logging.NewLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(t.TempDir(), "missing", "planner.log")})

	assert.Error(t, err)
}
