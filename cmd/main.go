package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"pixelclock/internal/audio"
	"pixelclock/internal/core/alert"
	"pixelclock/internal/core/controller"
	"pixelclock/internal/core/phasetimer"
	"pixelclock/internal/logging"
	"pixelclock/internal/notify"
	"pixelclock/internal/platform"
	"pixelclock/internal/storage"
	"pixelclock/internal/ui/icon"
	"pixelclock/internal/ui/panel"
	"pixelclock/internal/ui/preferences"
	"pixelclock/internal/ui/tray"
)

const (
	appName = "PixelClock"
	appDir  = "pixelclock"
)

func main() {
	logger, closeLog := newLogger()
	defer closeLog()
	slog.SetDefault(logger)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Warn("single instance", "error", err)
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if err := platform.Activate(appName); err != nil {
				logger.Warn("activate running instance", "error", err)
			}
		}
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settingsPath, err := storage.SettingsPath(appDir)
	if err != nil {
		logger.Error("settings path", "error", err)
	}
	settings, err := storage.LoadSettings(settingsPath)
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
	}

	fyneApp := app.NewWithID("io.pixelclock.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}
	if appIcon, err := icon.PNG(icon.RenderSize(1, icon.Accent(fyneApp.Settings().ThemeVariant()), 256)); err == nil {
		fyneApp.SetIcon(fyne.NewStaticResource("pixelclock.png", appIcon))
	}

	alertAsset, err := audio.FindAlert(appDir)
	if err != nil {
		logger.Info("no custom alert sound, using built-in tone", "error", err)
		alertAsset = audio.SystemSound
	}
	alerts := alert.New(audio.New(logger), alert.Config{
		Asset:         alertAsset,
		FallbackAsset: audio.SystemSound,
		Interval:      time.Second,
		Enabled:       settings.SoundEnabled,
		Volume:        settings.Volume,
	}, logger)
	notifier := notify.New(settings.NotificationsEnabled)
	timer := phasetimer.New(settings.Durations(), phasetimer.Config{TickInterval: time.Second})

	var panelWindow *panel.Window
	var clock *controller.Controller
	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnShow: func() {
			panelWindow.Show()
		},
		OnQuit: func() {
			clock.Close()
			fyneApp.Quit()
		},
	}, logger)
	trayManager.SetThemeVariant(fyneApp.Settings().ThemeVariant())

	clock = controller.New(timer, alerts, notifier, trayManager, logger)

	platformService := platform.NewService()
	if registered, err := platformService.AutostartEnabled(appName); err != nil {
		logger.Warn("check launch at login", "error", err)
	} else {
		settings.LaunchAtLogin = registered
	}
	saved := settings
	panelWindow = panel.New(fyneApp, clock, settings, func(updated preferences.Settings) {
		if updated.LaunchAtLogin != saved.LaunchAtLogin {
			if err := platform.SetAutostart(platformService, appName, updated.LaunchAtLogin); err != nil {
				logger.Warn("update launch at login", "error", err)
			}
		}
		saved = updated
		if settingsPath == "" {
			return
		}
		if err := storage.SaveSettings(settingsPath, updated); err != nil {
			logger.Warn("save settings", "error", err)
		}
	})
	panelWindow.Listen()
	guard.Serve(func() {
		fyne.Do(panelWindow.Show)
	})
	desktopApp.SetSystemTrayWindow(panelWindow.Window())

	watchAppearance(fyneApp, trayManager)

	logger.Info("started", "settings", settingsPath, "alert", alertAsset)
	fyneApp.Run()
	clock.Close()
	logger.Info("exiting")
}

func newLogger() (*slog.Logger, func()) {
	options, err := logging.DefaultOptions(appDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return logging.NewWithWriter(os.Stderr, slog.LevelInfo), func() {}
	}
	logger, closer := logging.New(options)
	return logger, func() {
		_ = closer.Close()
	}
}

// watchAppearance redraws the tray icon when the system switches between
// light and dark appearance.
func watchAppearance(fyneApp fyne.App, trayManager *tray.Manager) {
	changes := make(chan fyne.Settings, 1)
	fyneApp.Settings().AddChangeListener(changes)
	go func() {
		for settings := range changes {
			trayManager.SetThemeVariant(settings.ThemeVariant())
		}
	}()
}
