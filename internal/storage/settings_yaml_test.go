package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelclock/internal/ui/preferences"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"))

	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	want := preferences.Settings{
		TaskMinutes:          50,
		BreakMinutes:         10,
		LongBreakMinutes:     20,
		SoundEnabled:         false,
		Volume:               0.25,
		NotificationsEnabled: false,
		LaunchAtLogin:        true,
	}

	require.NoError(t, SaveSettings(path, want))
	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "task_minutes: 120\nbreak_minutes: -4\nlong_break_minutes: 3\nvolume: 3.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, 60, settings.TaskMinutes)
	assert.Equal(t, 1, settings.BreakMinutes)
	assert.Equal(t, 5, settings.LongBreakMinutes)
	assert.Equal(t, 1.0, settings.Volume)
	assert.True(t, settings.SoundEnabled, "absent keys keep defaults")
}

func TestLoadRejectsInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("task_minutes: [oops"), 0o644))

	settings, err := LoadSettings(path)

	assert.ErrorContains(t, err, "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}
