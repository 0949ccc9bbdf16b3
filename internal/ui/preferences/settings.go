package preferences

import (
	"pixelclock/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	TaskMinutes      int
	BreakMinutes     int
	LongBreakMinutes int

	SoundEnabled bool
	Volume       float64

	NotificationsEnabled bool
	LaunchAtLogin        bool
}

// DefaultSettings returns default settings for PixelClock.
func DefaultSettings() Settings {
	defaults := model.DefaultDurations()
	return Settings{
		TaskMinutes:          defaults.Task,
		BreakMinutes:         defaults.Break,
		LongBreakMinutes:     defaults.LongBreak,
		SoundEnabled:         true,
		Volume:               0.5,
		NotificationsEnabled: true,
		LaunchAtLogin:        false,
	}
}

// Durations converts settings to clamped phase durations.
func (settings Settings) Durations() model.Durations {
	return model.Durations{
		Task:      settings.TaskMinutes,
		Break:     settings.BreakMinutes,
		LongBreak: settings.LongBreakMinutes,
	}.Clamped()
}

// WithDurations copies the phase lengths from durations.
func (settings Settings) WithDurations(durations model.Durations) Settings {
	settings.TaskMinutes = durations.Task
	settings.BreakMinutes = durations.Break
	settings.LongBreakMinutes = durations.LongBreak
	return settings
}

// Normalized clamps durations and volume into their valid ranges.
func (settings Settings) Normalized() Settings {
	settings = settings.WithDurations(settings.Durations())
	switch {
	case settings.Volume < 0:
		settings.Volume = 0
	case settings.Volume > 1:
		settings.Volume = 1
	}
	return settings
}
