// Package controller connects the phase timer to alerts, notifications and
// the status-bar progress icon.
package controller

import (
	"log/slog"
	"sync"

	"pixelclock/internal/core/model"
	"pixelclock/internal/core/phasetimer"
)

// ProgressSink receives the fraction of the current phase that has elapsed.
type ProgressSink interface {
	SetProgress(fraction float64)
}

// Alerts is the repeating phase-completion sound.
type Alerts interface {
	Start()
	Stop()
	SetEnabled(enabled bool)
	SetVolume(volume float64)
}

// Notifier announces phase completions.
type Notifier interface {
	NotifyPhaseComplete(finished, next model.Phase) error
	SetEnabled(enabled bool)
}

// Controller is the single entry point for user actions.
//
// mu orders run changes against completion side effects: an alert or redraw
// from a run that a later Start, Pause or Stop has replaced is dropped.
type Controller struct {
	mu       sync.Mutex
	timer    *phasetimer.Timer
	alerts   Alerts
	notifier Notifier
	sink     ProgressSink
	logger   *slog.Logger
}

// New wires the collaborators and draws the initial progress.
func New(timer *phasetimer.Timer, alerts Alerts, notifier Notifier, sink ProgressSink, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	controller := &Controller{
		timer:    timer,
		alerts:   alerts,
		notifier: notifier,
		sink:     sink,
		logger:   logger,
	}
	timer.OnEvent(controller.handleEvent)
	sink.SetProgress(timer.State().FractionComplete())
	return controller
}

// State returns the current timer snapshot.
func (controller *Controller) State() phasetimer.State {
	return controller.timer.State()
}

// Subscribe returns a channel of timer events for UI layers.
func (controller *Controller) Subscribe(buffer int) <-chan phasetimer.Event {
	return controller.timer.Subscribe(buffer)
}

// Toggle starts an idle timer or pauses a running one.
func (controller *Controller) Toggle() {
	if controller.timer.State().Running {
		controller.Pause()
		return
	}
	controller.Start()
}

// Start silences any repeating alert and runs the current phase.
func (controller *Controller) Start() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.alerts.Stop()
	controller.timer.Start()
}

// Pause silences any repeating alert and freezes the countdown.
func (controller *Controller) Pause() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.alerts.Stop()
	controller.timer.Pause()
}

// Stop silences any repeating alert and resets to an idle Task.
func (controller *Controller) Stop() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.alerts.Stop()
	controller.timer.Stop()
}

// SelectPhase switches the idle phase.
func (controller *Controller) SelectPhase(phase model.Phase) {
	controller.timer.SelectPhase(phase)
}

// SetDuration changes a phase length and returns the applied minutes.
func (controller *Controller) SetDuration(phase model.Phase, minutes int) int {
	return controller.timer.SetDuration(phase, minutes)
}

// SetSoundEnabled toggles the completion alert.
func (controller *Controller) SetSoundEnabled(enabled bool) {
	controller.alerts.SetEnabled(enabled)
}

// SetVolume changes the alert volume, including a repeating alert.
func (controller *Controller) SetVolume(volume float64) {
	controller.alerts.SetVolume(volume)
}

// SetNotificationsEnabled toggles desktop notifications.
func (controller *Controller) SetNotificationsEnabled(enabled bool) {
	controller.notifier.SetEnabled(enabled)
}

// Close stops the alert and the tick driver.
func (controller *Controller) Close() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.alerts.Stop()
	controller.timer.Close()
}

func (controller *Controller) handleEvent(event phasetimer.Event) {
	if event.Type == phasetimer.EventStateChange {
		controller.sink.SetProgress(event.State.FractionComplete())
		return
	}

	controller.mu.Lock()
	defer controller.mu.Unlock()
	if !controller.timer.Current(event) {
		return
	}

	switch event.Type {
	case phasetimer.EventPhaseComplete:
		// The full ring stays visible until the next user action.
		controller.logger.Info("phase complete",
			"finished", string(event.Finished),
			"next", string(event.State.Phase),
			"completed_tasks", event.State.CompletedTasks)
		controller.alerts.Start()
		if err := controller.notifier.NotifyPhaseComplete(event.Finished, event.State.Phase); err != nil {
			controller.logger.Warn("phase notification failed", "error", err)
		}
	case phasetimer.EventProgress:
		controller.sink.SetProgress(event.State.FractionComplete())
	}
}
