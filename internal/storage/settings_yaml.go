package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"pixelclock/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	TaskMinutes          int      `yaml:"task_minutes"`
	BreakMinutes         int      `yaml:"break_minutes"`
	LongBreakMinutes     int      `yaml:"long_break_minutes"`
	SoundEnabled         *bool    `yaml:"sound_enabled"`
	Volume               *float64 `yaml:"volume"`
	NotificationsEnabled *bool    `yaml:"notifications_enabled"`
	LaunchAtLogin        *bool    `yaml:"launch_at_login"`
}

// SettingsPath returns the settings file location under the XDG config dir,
// creating parent directories as needed.
func SettingsPath(appName string) (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(appName, settingsFileName))
	if err != nil {
		return "", fmt.Errorf("resolve settings path: %w", err)
	}
	return path, nil
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, default settings are returned.
// Out-of-range values are clamped.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings.Normalized(), nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	settings = settings.Normalized()
	fileData := yamlSettings{
		TaskMinutes:          settings.TaskMinutes,
		BreakMinutes:         settings.BreakMinutes,
		LongBreakMinutes:     settings.LongBreakMinutes,
		SoundEnabled:         &settings.SoundEnabled,
		Volume:               &settings.Volume,
		NotificationsEnabled: &settings.NotificationsEnabled,
		LaunchAtLogin:        &settings.LaunchAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.TaskMinutes != 0 {
		settings.TaskMinutes = fileData.TaskMinutes
	}
	if fileData.BreakMinutes != 0 {
		settings.BreakMinutes = fileData.BreakMinutes
	}
	if fileData.LongBreakMinutes != 0 {
		settings.LongBreakMinutes = fileData.LongBreakMinutes
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.Volume != nil {
		settings.Volume = *fileData.Volume
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.LaunchAtLogin != nil {
		settings.LaunchAtLogin = *fileData.LaunchAtLogin
	}
}
