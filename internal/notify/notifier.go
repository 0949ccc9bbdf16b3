// Package notify sends desktop notifications when a phase ends.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"pixelclock/internal/core/model"
)

// Notifier handles desktop notifications.
type Notifier struct {
	mu      sync.Mutex
	enabled bool
	send    func(title, message string) error
}

// New creates a notifier.
func New(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// SetEnabled toggles notifications.
func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.mu.Lock()
	notifier.enabled = enabled
	notifier.mu.Unlock()
}

// IsEnabled returns true if notifications are enabled.
func (notifier *Notifier) IsEnabled() bool {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.enabled
}

// NotifyPhaseComplete announces the end of finished and what comes next.
func (notifier *Notifier) NotifyPhaseComplete(finished, next model.Phase) error {
	if !notifier.IsEnabled() {
		return nil
	}

	title := fmt.Sprintf("%s complete", finished.Label())
	message := fmt.Sprintf("Up next: %s. Press Start when you are ready.", next.Label())
	if finished == model.PhaseTask {
		title = "🍅 Task complete!"
	}
	if err := notifier.send(title, message); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
