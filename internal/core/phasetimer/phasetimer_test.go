package phasetimer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelclock/internal/core/model"
)

// manualTimer returns a timer whose driver never fires during a test, so
// ticks are applied only through Tick.
func manualTimer(durations model.Durations) *Timer {
	return New(durations, Config{TickInterval: time.Hour})
}

func finishPhase(t *testing.T, timer *Timer) {
	t.Helper()
	timer.Start()
	require.True(t, timer.State().Running)
	for timer.State().Running {
		timer.Tick()
	}
}

func TestNewStartsIdleOnTask(t *testing.T) {
	timer := manualTimer(model.DefaultDurations())
	defer timer.Close()

	state := timer.State()
	assert.Equal(t, model.PhaseTask, state.Phase)
	assert.Equal(t, 25*60, state.RemainingSeconds)
	assert.Equal(t, 25*60, state.TotalSeconds)
	assert.False(t, state.Running)
	assert.Equal(t, 0, state.CompletedTasks)
	assert.Equal(t, 0.0, state.FractionComplete())
}

func TestSelectPhaseUsesConfiguredMinutes(t *testing.T) {
	for _, phase := range model.Phases {
		allowed := model.RangeFor(phase)
		for minutes := allowed.Min; minutes <= allowed.Max; minutes++ {
			timer := manualTimer(model.DefaultDurations())
			require.Equal(t, minutes, timer.SetDuration(phase, minutes))

			timer.SelectPhase(phase)

			state := timer.State()
			assert.Equal(t, phase, state.Phase)
			assert.Equal(t, minutes*60, state.RemainingSeconds, "%s %d min", phase, minutes)
			timer.Close()
		}
	}
}

func TestCompletionPolicyCyclesToLongBreak(t *testing.T) {
	durations := model.Durations{Task: 1, Break: 1, LongBreak: 5}
	timer := manualTimer(durations)
	defer timer.Close()

	for task := 1; task <= 4; task++ {
		require.Equal(t, model.PhaseTask, timer.State().Phase)
		finishPhase(t, timer)

		state := timer.State()
		assert.False(t, state.Running)
		if task < 4 {
			assert.Equal(t, model.PhaseBreak, state.Phase, "after task %d", task)
			assert.Equal(t, task, state.CompletedTasks)
			assert.Equal(t, 60, state.RemainingSeconds)
		} else {
			assert.Equal(t, model.PhaseLongBreak, state.Phase)
			assert.Equal(t, 0, state.CompletedTasks)
			assert.Equal(t, 5*60, state.RemainingSeconds)
		}

		finishPhase(t, timer)
		assert.Equal(t, model.PhaseTask, timer.State().Phase)
	}
}

func TestBreakCompletionKeepsTaskCount(t *testing.T) {
	timer := manualTimer(model.Durations{Task: 1, Break: 1, LongBreak: 5})
	defer timer.Close()

	finishPhase(t, timer)
	require.Equal(t, 1, timer.State().CompletedTasks)

	finishPhase(t, timer)
	assert.Equal(t, 1, timer.State().CompletedTasks)
}

func TestStopResetsFromAnyState(t *testing.T) {
	setups := map[string]func(timer *Timer){
		"idle task": func(timer *Timer) {},
		"running task": func(timer *Timer) {
			timer.Start()
			timer.Tick()
		},
		"paused break": func(timer *Timer) {
			timer.Start()
			for timer.State().Running {
				timer.Tick()
			}
			timer.Start()
			timer.Tick()
			timer.Pause()
		},
		"idle long break": func(timer *Timer) {
			timer.SelectPhase(model.PhaseLongBreak)
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			timer := manualTimer(model.Durations{Task: 2, Break: 1, LongBreak: 5})
			defer timer.Close()
			setup(timer)

			timer.Stop()

			state := timer.State()
			assert.Equal(t, model.PhaseTask, state.Phase)
			assert.Equal(t, 120, state.RemainingSeconds)
			assert.False(t, state.Running)
			assert.Equal(t, 0, state.CompletedTasks)
		})
	}
}

func TestPauseThenStartKeepsRemaining(t *testing.T) {
	timer := manualTimer(model.DefaultDurations())
	defer timer.Close()

	timer.Start()
	for i := 0; i < 10; i++ {
		timer.Tick()
	}
	timer.Pause()
	paused := timer.State()
	require.False(t, paused.Running)
	require.Equal(t, 25*60-10, paused.RemainingSeconds)

	timer.Tick()
	assert.Equal(t, paused.RemainingSeconds, timer.State().RemainingSeconds)

	timer.Start()
	resumed := timer.State()
	assert.True(t, resumed.Running)
	assert.Equal(t, paused.RemainingSeconds, resumed.RemainingSeconds)
	assert.Equal(t, paused.FractionComplete(), resumed.FractionComplete())
}

func TestFractionIsMonotonicAndReachesOne(t *testing.T) {
	timer := manualTimer(model.Durations{Task: 1, Break: 1, LongBreak: 5})
	defer timer.Close()

	var fractions []float64
	timer.OnEvent(func(event Event) {
		if event.Type == EventProgress {
			fractions = append(fractions, event.State.FractionComplete())
		}
	})

	timer.Start()
	for timer.State().Running {
		timer.Tick()
	}

	require.Len(t, fractions, 60)
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestTaskScenarioOf25Minutes(t *testing.T) {
	timer := manualTimer(model.DefaultDurations())
	defer timer.Close()

	var completions []Event
	timer.OnEvent(func(event Event) {
		if event.Type == EventPhaseComplete {
			completions = append(completions, event)
		}
	})

	timer.Start()
	for i := 0; i < 1500; i++ {
		timer.Tick()
	}

	state := timer.State()
	assert.Equal(t, model.PhaseBreak, state.Phase)
	assert.False(t, state.Running)
	assert.Equal(t, 1, state.CompletedTasks)
	assert.Equal(t, 5*60, state.RemainingSeconds)

	require.Len(t, completions, 1)
	assert.Equal(t, model.PhaseTask, completions[0].Finished)
	assert.Equal(t, model.PhaseBreak, completions[0].State.Phase)
}

func TestSetDurationClampsLongBreak(t *testing.T) {
	timer := manualTimer(model.DefaultDurations())
	defer timer.Close()

	assert.Equal(t, 5, timer.SetDuration(model.PhaseLongBreak, 3))
	assert.Equal(t, 5, timer.State().Durations.LongBreak)
}

func TestSetDurationResetsActiveIdlePhase(t *testing.T) {
	timer := manualTimer(model.DefaultDurations())
	defer timer.Close()

	timer.SetDuration(model.PhaseTask, 10)
	assert.Equal(t, 600, timer.State().RemainingSeconds)

	timer.SetDuration(model.PhaseBreak, 7)
	assert.Equal(t, 600, timer.State().RemainingSeconds)
	assert.Equal(t, 7, timer.State().Durations.Break)
}

func TestRunningIgnoresConfigurationChanges(t *testing.T) {
	timer := manualTimer(model.DefaultDurations())
	defer timer.Close()

	timer.Start()
	timer.Tick()

	assert.Equal(t, 25, timer.SetDuration(model.PhaseTask, 10))
	timer.SelectPhase(model.PhaseBreak)
	timer.Start()

	state := timer.State()
	assert.Equal(t, model.PhaseTask, state.Phase)
	assert.Equal(t, 25*60-1, state.RemainingSeconds)
	assert.Equal(t, 25, state.Durations.Task)
	assert.True(t, state.Running)
}

func TestStaleDriverTickIsIgnored(t *testing.T) {
	timer := manualTimer(model.DefaultDurations())
	defer timer.Close()

	timer.Start()
	stale := timer.generation
	timer.Pause()
	timer.Start()

	timer.tick(stale)
	assert.Equal(t, 25*60, timer.State().RemainingSeconds)
}

func TestDriverTicksUntilPaused(t *testing.T) {
	timer := New(model.DefaultDurations(), Config{TickInterval: 5 * time.Millisecond})
	defer timer.Close()

	timer.Start()
	require.Eventually(t, func() bool {
		return timer.State().RemainingSeconds <= 25*60-3
	}, time.Second, time.Millisecond)

	timer.Pause()
	held := timer.State().RemainingSeconds
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, held, timer.State().RemainingSeconds)
}

func TestSubscribeReceivesStateChanges(t *testing.T) {
	timer := manualTimer(model.DefaultDurations())
	events := timer.Subscribe(4)

	timer.Start()
	timer.Pause()

	first := <-events
	second := <-events
	assert.Equal(t, EventStateChange, first.Type)
	assert.True(t, first.State.Running)
	assert.Equal(t, EventStateChange, second.Type)
	assert.False(t, second.State.Running)

	timer.Close()
	_, open := <-events
	assert.False(t, open)
}

func TestCompletionEventsGoStaleOnNextRun(t *testing.T) {
	timer := manualTimer(model.Durations{Task: 1, Break: 1, LongBreak: 5})
	defer timer.Close()
	var captured []Event
	timer.OnEvent(func(event Event) {
		captured = append(captured, event)
	})

	timer.Start()
	for i := 0; i < 60; i++ {
		timer.Tick()
	}

	require.GreaterOrEqual(t, len(captured), 2)
	progress, complete := captured[len(captured)-2], captured[len(captured)-1]
	require.Equal(t, EventProgress, progress.Type)
	require.Equal(t, EventPhaseComplete, complete.Type)
	assert.True(t, timer.Current(progress))
	assert.True(t, timer.Current(complete))

	timer.Start()
	assert.False(t, timer.Current(progress))
	assert.False(t, timer.Current(complete))
	assert.True(t, timer.Current(captured[len(captured)-1]))
}
