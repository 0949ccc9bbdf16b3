package model

import "time"

// Phase identifies one of the countdown intervals.
type Phase string

const (
	PhaseTask      Phase = "task"
	PhaseBreak     Phase = "break"
	PhaseLongBreak Phase = "long_break"
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseTask, PhaseBreak, PhaseLongBreak}

// Label returns a human-readable phase name.
func (phase Phase) Label() string {
	switch phase {
	case PhaseTask:
		return "Task"
	case PhaseBreak:
		return "Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// Valid reports whether phase is a known phase.
func (phase Phase) Valid() bool {
	switch phase {
	case PhaseTask, PhaseBreak, PhaseLongBreak:
		return true
	}
	return false
}

// MinuteRange bounds a configurable duration in whole minutes.
type MinuteRange struct {
	Min int
	Max int
}

// Clamp limits minutes to the range.
func (value MinuteRange) Clamp(minutes int) int {
	if minutes < value.Min {
		return value.Min
	}
	if minutes > value.Max {
		return value.Max
	}
	return minutes
}

// RangeFor returns the allowed duration range of a phase.
func RangeFor(phase Phase) MinuteRange {
	switch phase {
	case PhaseBreak:
		return MinuteRange{Min: 1, Max: 30}
	case PhaseLongBreak:
		return MinuteRange{Min: 5, Max: 30}
	default:
		return MinuteRange{Min: 1, Max: 60}
	}
}

// TasksBeforeLongBreak is the number of completed tasks that triggers a long break.
const TasksBeforeLongBreak = 4

// Durations holds the configured minutes of every phase.
type Durations struct {
	Task      int
	Break     int
	LongBreak int
}

// DefaultDurations returns the classic 25/5/15 setup.
func DefaultDurations() Durations {
	return Durations{
		Task:      25,
		Break:     5,
		LongBreak: 15,
	}
}

// Minutes returns the configured minutes of phase.
func (durations Durations) Minutes(phase Phase) int {
	switch phase {
	case PhaseBreak:
		return durations.Break
	case PhaseLongBreak:
		return durations.LongBreak
	default:
		return durations.Task
	}
}

// Seconds returns the configured length of phase in whole seconds.
func (durations Durations) Seconds(phase Phase) int {
	return durations.Minutes(phase) * 60
}

// Duration returns the configured length of phase.
func (durations Durations) Duration(phase Phase) time.Duration {
	return time.Duration(durations.Minutes(phase)) * time.Minute
}

// With returns a copy with phase set to minutes, clamped to the phase range.
func (durations Durations) With(phase Phase, minutes int) Durations {
	minutes = RangeFor(phase).Clamp(minutes)
	switch phase {
	case PhaseBreak:
		durations.Break = minutes
	case PhaseLongBreak:
		durations.LongBreak = minutes
	default:
		durations.Task = minutes
	}
	return durations
}

// Clamped returns a copy with every phase limited to its range.
func (durations Durations) Clamped() Durations {
	for _, phase := range Phases {
		durations = durations.With(phase, durations.Minutes(phase))
	}
	return durations
}
