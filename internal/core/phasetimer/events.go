package phasetimer

import (
	"time"

	"pixelclock/internal/core/model"
)

// EventType defines the type of PhaseTimer event.
type EventType string

const (
	EventStateChange   EventType = "state_change"
	EventProgress      EventType = "progress"
	EventPhaseComplete EventType = "phase_complete"
)

// Event represents a PhaseTimer update for observers.
type Event struct {
	Type  EventType
	State State
	// Finished is the phase that just ran out. Only set for EventPhaseComplete.
	Finished model.Phase
	// Generation identifies the run the event belongs to.
	Generation uint64
	At         time.Time
}

// State is a snapshot of the countdown.
type State struct {
	Phase            model.Phase
	RemainingSeconds int
	TotalSeconds     int
	Running          bool
	CompletedTasks   int
	Durations        model.Durations
}

// Remaining returns the remaining time as a duration.
func (state State) Remaining() time.Duration {
	return time.Duration(state.RemainingSeconds) * time.Second
}

// FractionComplete returns elapsed/total of the current phase in [0, 1].
// Total is the value captured when the phase was entered.
func (state State) FractionComplete() float64 {
	if state.TotalSeconds <= 0 {
		return 0
	}
	fraction := 1 - float64(state.RemainingSeconds)/float64(state.TotalSeconds)
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}
