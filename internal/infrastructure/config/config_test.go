package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := config.Defaults()

	assert.Equal(t, 10, cfg.Planner.ComponentME)
	assert.Equal(t, 20, cfg.Planner.ComponentTE)
	assert.Equal(t, 32, cfg.Planner.MaxDepth)
	assert.Equal(t, 30.0, cfg.Planner.DefaultMaxDurationDays)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 4, cfg.Feed.Concurrency)
	assert.Equal(t, 15*time.Second, cfg.ESI.Timeout)
	assert.NoError(t, config.ValidateConfig(cfg))
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := writeConfig(t, `
database:
  type: sqlite
  path: planner.db
esi:
  timeout: 5s
  retry:
    max_attempts: 1
planner:
  component_me: 0
  max_depth: 12
  default_max_duration_days: 2.5
logging:
  level: debug
  format: json
`)

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "planner.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.ESI.Timeout)
	assert.Equal(t, 1, cfg.ESI.Retry.MaxAttempts)
	assert.Equal(t, 0, cfg.Planner.ComponentME, "an explicit zero is kept")
	assert.Equal(t, 20, cfg.Planner.ComponentTE)
	assert.Equal(t, 12, cfg.Planner.MaxDepth)
	assert.Equal(t, 2.5, cfg.Planner.DefaultMaxDurationDays)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  type: sqlite
planner:
  max_depth: 12
`)
	t.Setenv("IND_PLANNER_MAX_DEPTH", "40")
	t.Setenv("IND_FEED_CONCURRENCY", "8")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Planner.MaxDepth)
	assert.Equal(t, 8, cfg.Feed.Concurrency)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"component ME above ten", "planner:\n  component_me: 11\n"},
		{"odd component TE", "planner:\n  component_te: 15\n"},
		{"unknown database", "database:\n  type: oracle\n"},
		{"file logging without path", "logging:\n  output: file\n"},
		{"metrics without textfile", "metrics:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.body))

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestPreferencesStore_DefaultUser(t *testing.T) {
	h, err := config.OpenPreferencesStore(filepath.Join(t.TempDir(), "nested", "preferences.yaml"))
	require.NoError(t, err)

	empty, err := h.Load()
	require.NoError(t, err)
	assert.Nil(t, empty.DefaultUserID)

	require.NoError(t, h.SetDefaultUser(7))
	loaded, err := h.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.DefaultUserID)
	assert.Equal(t, 7, *loaded.DefaultUserID)

	require.NoError(t, h.ClearDefaultUser())
	cleared, err := h.Load()
	require.NoError(t, err)
	assert.Nil(t, cleared.DefaultUserID)
}

func TestValidator_EvenRule(t *testing.T) {
	type levels struct {
		TE int `validate:"even"`
	}
	v := config.NewValidator()

	assert.NoError(t, v.Validate(levels{TE: 18}))
	err := v.Validate(levels{TE: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `levels.TE: failed "even"`)
}
