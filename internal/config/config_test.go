package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wodtimer/internal/engine"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.True(t, cfg.SoundEnabled)
	assert.Equal(t, engine.ModeAMRAP, cfg.InitialMode())
	assert.Equal(t, "wodtimer.db", cfg.DatabasePath)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
sound_enabled: false
default_mode: tabata
database_path: /tmp/test.db
tabata:
  work_seconds: 30
  rest_seconds: 15
  rounds: 6
  total_minutes: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.SoundEnabled)
	assert.Equal(t, engine.ModeTabata, cfg.InitialMode())
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)

	sc := cfg.SessionConfig(engine.ModeTabata)
	assert.Equal(t, 300, sc.TotalSeconds)
	assert.Equal(t, 30, sc.WorkSeconds)
	assert.Equal(t, 15, sc.RestSeconds)
	assert.Equal(t, 6, sc.Rounds)
}

func TestLoadInvalidDefaultModeFallsBack(t *testing.T) {
	cfg, err := Load(writeConfig(t, "default_mode: sprint\n"))
	require.NoError(t, err)
	assert.Equal(t, engine.ModeAMRAP, cfg.InitialMode())
}

func TestSessionConfigKeepsPresetWhenUnset(t *testing.T) {
	cfg, err := Load(writeConfig(t, "sound_enabled: true\n"))
	require.NoError(t, err)

	for _, d := range engine.Modes() {
		assert.Equal(t, engine.DefaultConfig(d.Mode), cfg.SessionConfig(d.Mode))
	}
}

func TestSessionConfigClampsOverrides(t *testing.T) {
	path := writeConfig(t, `
custom:
  work_seconds: -10
  total_minutes: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	sc := cfg.SessionConfig(engine.ModeCustom)
	preset := engine.DefaultConfig(engine.ModeCustom)
	assert.Equal(t, preset.WorkSeconds, sc.WorkSeconds, "non-positive overrides are ignored")
	assert.Equal(t, preset.TotalSeconds, sc.TotalSeconds)
}
