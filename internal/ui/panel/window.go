// Package panel is the main window opened from the status-bar icon.
package panel

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pixelclock/internal/core/model"
	"pixelclock/internal/core/phasetimer"
	"pixelclock/internal/ui/preferences"
)

// Controls is the set of timer actions the panel drives.
type Controls interface {
	State() phasetimer.State
	Subscribe(buffer int) <-chan phasetimer.Event
	Toggle()
	Stop()
	SelectPhase(phase model.Phase)
	SetDuration(phase model.Phase, minutes int) int
	SetSoundEnabled(enabled bool)
	SetVolume(volume float64)
	SetNotificationsEnabled(enabled bool)
}

var (
	taskColor      = color.NRGBA{R: 52, G: 199, B: 89, A: 255}
	breakColor     = color.NRGBA{R: 0, G: 122, B: 255, A: 255}
	longBreakColor = color.NRGBA{R: 255, G: 149, B: 0, A: 255}
)

// Window handles the panel UI.
type Window struct {
	window            fyne.Window
	controls          Controls
	settings          preferences.Settings
	onSettingsChanged func(preferences.Settings)
	updating          bool

	phaseSelect  *widget.RadioGroup
	phaseLabel   *canvas.Text
	countdown    *canvas.Text
	completed    *widget.Label
	startButton  *widget.Button
	stopButton   *widget.Button
	sliders      map[model.Phase]*widget.Slider
	sliderLabels map[model.Phase]*widget.Label
	sound        *widget.Check
	volume       *widget.Slider
	volumeLabel  *widget.Label
	notify       *widget.Check
	launch       *widget.Check
}

// New creates the panel window. It stays hidden until Show is called and
// closing it only hides it.
func New(app fyne.App, controls Controls, settings preferences.Settings, onSettingsChanged func(preferences.Settings)) *Window {
	window := app.NewWindow("PixelClock")

	panel := &Window{
		window:            window,
		controls:          controls,
		settings:          settings.Normalized(),
		onSettingsChanged: onSettingsChanged,
		sliders:           make(map[model.Phase]*widget.Slider, len(model.Phases)),
		sliderLabels:      make(map[model.Phase]*widget.Label, len(model.Phases)),
	}

	labels := make([]string, 0, len(model.Phases))
	for _, phase := range model.Phases {
		labels = append(labels, phase.Label())
	}
	panel.phaseSelect = widget.NewRadioGroup(labels, panel.handlePhaseSelected)
	panel.phaseSelect.Horizontal = true
	panel.phaseSelect.Required = true

	panel.phaseLabel = canvas.NewText("", taskColor)
	panel.phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	panel.phaseLabel.TextSize = 18
	panel.phaseLabel.Alignment = fyne.TextAlignCenter

	panel.countdown = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	panel.countdown.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
	panel.countdown.TextSize = 48
	panel.countdown.Alignment = fyne.TextAlignCenter

	panel.completed = widget.NewLabel("")
	panel.completed.Alignment = fyne.TextAlignCenter

	panel.startButton = widget.NewButton("Start", controls.Toggle)
	panel.startButton.Importance = widget.HighImportance
	panel.stopButton = widget.NewButton("Stop", controls.Stop)

	durationRows := container.NewVBox()
	for _, phase := range model.Phases {
		durationRows.Add(panel.newDurationRow(phase))
	}

	panel.sound = widget.NewCheck("Enable Sound", panel.handleSoundChanged)
	panel.volume = widget.NewSlider(0, 1)
	panel.volume.Step = 0.01
	panel.volume.OnChanged = panel.handleVolumeChanged
	panel.volume.OnChangeEnded = func(float64) {
		if !panel.updating {
			panel.saveSettings()
		}
	}
	panel.volumeLabel = widget.NewLabel("")
	panel.notify = widget.NewCheck("Notifications", panel.handleNotifyChanged)
	panel.launch = widget.NewCheck("Launch at login", panel.handleLaunchChanged)

	content := container.NewVBox(
		widget.NewLabelWithStyle("PixelClock", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		panel.phaseSelect,
		panel.phaseLabel,
		panel.countdown,
		panel.completed,
		container.NewHBox(layout.NewSpacer(), panel.startButton, panel.stopButton, layout.NewSpacer()),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		durationRows,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		panel.sound,
		container.NewBorder(nil, nil, panel.volumeLabel, nil, panel.volume),
		widget.NewSeparator(),
		panel.notify,
		panel.launch,
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(320, 520))
	window.SetCloseIntercept(window.Hide)

	panel.applySettings()
	panel.applyState(controls.State())
	return panel
}

// Listen redraws the panel from timer events until the channel closes.
func (panel *Window) Listen() {
	events := panel.controls.Subscribe(16)
	go func() {
		for event := range events {
			state := event.State
			fyne.Do(func() {
				panel.applyState(state)
			})
		}
	}()
}

// Show displays the panel window.
func (panel *Window) Show() {
	panel.window.Show()
	panel.window.RequestFocus()
}

// Hide hides the panel window without destroying it.
func (panel *Window) Hide() {
	panel.window.Hide()
}

// Window exposes the underlying fyne window for the system-tray host.
func (panel *Window) Window() fyne.Window {
	return panel.window
}

func (panel *Window) newDurationRow(phase model.Phase) fyne.CanvasObject {
	bounds := model.RangeFor(phase)
	slider := widget.NewSlider(float64(bounds.Min), float64(bounds.Max))
	slider.Step = 1
	label := widget.NewLabel("")
	slider.OnChanged = func(value float64) {
		if panel.updating {
			return
		}
		applied := panel.controls.SetDuration(phase, int(math.Round(value)))
		label.SetText(durationText(phase, applied))
		panel.applyState(panel.controls.State())
	}
	slider.OnChangeEnded = func(float64) {
		if !panel.updating {
			panel.saveSettings()
		}
	}
	panel.sliders[phase] = slider
	panel.sliderLabels[phase] = label
	return container.NewBorder(nil, nil, label, nil, slider)
}

func (panel *Window) applyState(state phasetimer.State) {
	panel.updating = true
	defer func() { panel.updating = false }()

	panel.phaseSelect.SetSelected(state.Phase.Label())
	panel.phaseLabel.Text = state.Phase.Label()
	panel.phaseLabel.Color = phaseColor(state.Phase)
	panel.phaseLabel.Refresh()
	panel.countdown.Text = formatCountdown(state.RemainingSeconds)
	panel.countdown.Refresh()
	panel.completed.SetText(fmt.Sprintf("Completed Tasks: %d", state.CompletedTasks))

	if state.Running {
		panel.startButton.SetText("Pause")
		panel.phaseSelect.Disable()
	} else {
		panel.startButton.SetText("Start")
		panel.phaseSelect.Enable()
	}

	for _, phase := range model.Phases {
		slider := panel.sliders[phase]
		minutes := state.Durations.Minutes(phase)
		slider.SetValue(float64(minutes))
		panel.sliderLabels[phase].SetText(durationText(phase, minutes))
		if state.Running {
			slider.Disable()
		} else {
			slider.Enable()
		}
	}
}

func (panel *Window) applySettings() {
	panel.updating = true
	defer func() { panel.updating = false }()

	panel.sound.SetChecked(panel.settings.SoundEnabled)
	panel.volume.SetValue(panel.settings.Volume)
	panel.volumeLabel.SetText(volumeText(panel.settings.Volume))
	if panel.settings.SoundEnabled {
		panel.volume.Enable()
	} else {
		panel.volume.Disable()
	}
	panel.notify.SetChecked(panel.settings.NotificationsEnabled)
	panel.launch.SetChecked(panel.settings.LaunchAtLogin)
}

func (panel *Window) handlePhaseSelected(label string) {
	if panel.updating {
		return
	}
	for _, phase := range model.Phases {
		if phase.Label() == label {
			panel.controls.SelectPhase(phase)
		}
	}
	panel.applyState(panel.controls.State())
}

func (panel *Window) handleSoundChanged(enabled bool) {
	if panel.updating {
		return
	}
	panel.settings.SoundEnabled = enabled
	panel.controls.SetSoundEnabled(enabled)
	panel.applySettings()
	panel.saveSettings()
}

func (panel *Window) handleVolumeChanged(volume float64) {
	if panel.updating {
		return
	}
	panel.settings.Volume = volume
	panel.controls.SetVolume(volume)
	panel.volumeLabel.SetText(volumeText(volume))
}

func (panel *Window) handleNotifyChanged(enabled bool) {
	if panel.updating {
		return
	}
	panel.settings.NotificationsEnabled = enabled
	panel.controls.SetNotificationsEnabled(enabled)
	panel.saveSettings()
}

func (panel *Window) handleLaunchChanged(enabled bool) {
	if panel.updating {
		return
	}
	panel.settings.LaunchAtLogin = enabled
	panel.saveSettings()
}

func (panel *Window) saveSettings() {
	panel.settings = panel.settings.WithDurations(panel.controls.State().Durations)
	if panel.onSettingsChanged != nil {
		panel.onSettingsChanged(panel.settings)
	}
}

func formatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func durationText(phase model.Phase, minutes int) string {
	return fmt.Sprintf("%s: %d min", phase.Label(), minutes)
}

func volumeText(volume float64) string {
	return fmt.Sprintf("Volume: %d%%", int(math.Round(volume*100)))
}

func phaseColor(phase model.Phase) color.Color {
	switch phase {
	case model.PhaseBreak:
		return breakColor
	case model.PhaseLongBreak:
		return longBreakColor
	default:
		return taskColor
	}
}
