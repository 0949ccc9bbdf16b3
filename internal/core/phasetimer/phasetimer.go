package phasetimer

import (
	"context"
	"sync"
	"time"

	"pixelclock/internal/core/model"
)

// Config contains runtime options for PhaseTimer.
type Config struct {
	TickInterval time.Duration
}

// Timer is the phase-cycling countdown state machine.
// Invalid transitions are no-ops, so no operation returns an error.
type Timer struct {
	mu         sync.Mutex
	durations  model.Durations
	options    Config
	phase      model.Phase
	remaining  int
	total      int
	running    bool
	completed  int
	generation uint64
	stopDriver context.CancelFunc
	events     []chan Event
	handlers   []func(Event)
	now        func() time.Time
}

// New creates an idle Timer on the Task phase.
func New(durations model.Durations, options Config) *Timer {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}

	timer := &Timer{
		durations: durations.Clamped(),
		options:   options,
		now:       time.Now,
	}
	timer.enterPhaseLocked(model.PhaseTask)
	return timer
}

// Subscribe registers a new observer channel. Sends never block; a full
// channel misses the event.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	timer.events = append(timer.events, ch)
	timer.mu.Unlock()
	return ch
}

// OnEvent registers a handler called synchronously for every event,
// outside the timer lock.
func (timer *Timer) OnEvent(handler func(Event)) {
	if handler == nil {
		return
	}
	timer.mu.Lock()
	timer.handlers = append(timer.handlers, handler)
	timer.mu.Unlock()
}

// State returns a snapshot of the timer.
func (timer *Timer) State() State {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.stateLocked()
}

// Start begins counting down the current phase.
func (timer *Timer) Start() {
	timer.mu.Lock()
	if timer.running {
		timer.mu.Unlock()
		return
	}
	timer.running = true
	timer.generation++
	ctx, cancel := context.WithCancel(context.Background())
	timer.stopDriver = cancel
	generation := timer.generation
	event := timer.eventLocked(EventStateChange)
	timer.mu.Unlock()

	go timer.run(ctx, generation)
	timer.dispatch(event)
}

// Pause freezes the countdown at its current value.
func (timer *Timer) Pause() {
	timer.mu.Lock()
	if !timer.running {
		timer.mu.Unlock()
		return
	}
	timer.haltLocked()
	event := timer.eventLocked(EventStateChange)
	timer.mu.Unlock()

	timer.dispatch(event)
}

// Stop is a hard reset to an idle Task phase with no completed tasks.
func (timer *Timer) Stop() {
	timer.mu.Lock()
	timer.haltLocked()
	timer.completed = 0
	timer.enterPhaseLocked(model.PhaseTask)
	event := timer.eventLocked(EventStateChange)
	timer.mu.Unlock()

	timer.dispatch(event)
}

// SelectPhase switches to an idle phase. Ignored while running.
func (timer *Timer) SelectPhase(phase model.Phase) {
	if !phase.Valid() {
		return
	}

	timer.mu.Lock()
	if timer.running {
		timer.mu.Unlock()
		return
	}
	timer.enterPhaseLocked(phase)
	event := timer.eventLocked(EventStateChange)
	timer.mu.Unlock()

	timer.dispatch(event)
}

// SetDuration changes the configured minutes of phase, clamped to the
// phase range, and returns the stored value. Ignored while running.
func (timer *Timer) SetDuration(phase model.Phase, minutes int) int {
	if !phase.Valid() {
		return 0
	}

	timer.mu.Lock()
	if timer.running {
		current := timer.durations.Minutes(phase)
		timer.mu.Unlock()
		return current
	}
	timer.durations = timer.durations.With(phase, minutes)
	applied := timer.durations.Minutes(phase)
	if timer.phase == phase {
		timer.enterPhaseLocked(phase)
	}
	event := timer.eventLocked(EventStateChange)
	timer.mu.Unlock()

	timer.dispatch(event)
	return applied
}

// Current reports whether event still describes the latest run. Events
// emitted before a later Start, Pause or Stop are stale.
func (timer *Timer) Current(event Event) bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return event.Generation == timer.generation
}

// Tick applies one second to the running countdown.
func (timer *Timer) Tick() {
	timer.mu.Lock()
	generation := timer.generation
	timer.mu.Unlock()
	timer.tick(generation)
}

// Close stops the tick driver and closes subscriber channels.
func (timer *Timer) Close() {
	timer.mu.Lock()
	timer.haltLocked()
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (timer *Timer) run(ctx context.Context, generation uint64) {
	ticker := time.NewTicker(timer.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			timer.tick(generation)
		}
	}
}

func (timer *Timer) tick(generation uint64) {
	timer.mu.Lock()
	if !timer.running || generation != timer.generation {
		timer.mu.Unlock()
		return
	}

	if timer.remaining > 0 {
		timer.remaining--
	}
	if timer.remaining > 0 {
		event := timer.eventLocked(EventProgress)
		timer.mu.Unlock()
		timer.dispatch(event)
		return
	}

	progress := timer.eventLocked(EventProgress)
	finished := timer.phase
	timer.haltLocked()
	timer.enterPhaseLocked(timer.nextPhaseLocked(finished))
	complete := timer.eventLocked(EventPhaseComplete)
	complete.Finished = finished
	progress.Generation = complete.Generation
	timer.mu.Unlock()

	timer.dispatch(progress, complete)
}

func (timer *Timer) nextPhaseLocked(finished model.Phase) model.Phase {
	if finished != model.PhaseTask {
		return model.PhaseTask
	}
	timer.completed++
	if timer.completed >= model.TasksBeforeLongBreak {
		timer.completed = 0
		return model.PhaseLongBreak
	}
	return model.PhaseBreak
}

func (timer *Timer) enterPhaseLocked(phase model.Phase) {
	timer.phase = phase
	timer.remaining = timer.durations.Seconds(phase)
	timer.total = timer.remaining
}

func (timer *Timer) haltLocked() {
	timer.running = false
	timer.generation++
	if timer.stopDriver != nil {
		timer.stopDriver()
		timer.stopDriver = nil
	}
}

func (timer *Timer) stateLocked() State {
	return State{
		Phase:            timer.phase,
		RemainingSeconds: timer.remaining,
		TotalSeconds:     timer.total,
		Running:          timer.running,
		CompletedTasks:   timer.completed,
		Durations:        timer.durations,
	}
}

func (timer *Timer) eventLocked(eventType EventType) Event {
	return Event{
		Type:       eventType,
		State:      timer.stateLocked(),
		Generation: timer.generation,
		At:         timer.now(),
	}
}

func (timer *Timer) dispatch(events ...Event) {
	timer.mu.Lock()
	channels := append([]chan Event(nil), timer.events...)
	handlers := append(([]func(Event))(nil), timer.handlers...)
	for _, event := range events {
		for _, ch := range channels {
			select {
			case ch <- event:
			default:
			}
		}
	}
	timer.mu.Unlock()

	for _, event := range events {
		for _, handler := range handlers {
			handler(event)
		}
	}
}
