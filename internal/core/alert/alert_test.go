package alert

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playback struct {
	asset  string
	volume float64
}

type fakePlayer struct {
	mu      sync.Mutex
	plays   []playback
	stops   int
	missing map[string]bool
}

func (player *fakePlayer) Play(asset string, volume float64) error {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.missing[asset] {
		return errors.New("missing asset")
	}
	player.plays = append(player.plays, playback{asset: asset, volume: volume})
	return nil
}

func (player *fakePlayer) Stop() {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.stops++
}

func (player *fakePlayer) played() []playback {
	player.mu.Lock()
	defer player.mu.Unlock()
	return append([]playback(nil), player.plays...)
}

func testConfig() Config {
	return Config{
		Asset:         "alert",
		FallbackAsset: "system",
		Interval:      5 * time.Millisecond,
		Enabled:       true,
		Volume:        0.5,
	}
}

func TestStartPlaysImmediately(t *testing.T) {
	player := &fakePlayer{}
	config := testConfig()
	config.Interval = time.Hour
	sequencer := New(player, config, nil)
	defer sequencer.Stop()

	sequencer.Start()

	plays := player.played()
	require.Len(t, plays, 1)
	assert.Equal(t, playback{asset: "alert", volume: 0.5}, plays[0])
	assert.True(t, sequencer.Active())
}

func TestStartRepeatsUntilStopped(t *testing.T) {
	player := &fakePlayer{}
	sequencer := New(player, testConfig(), nil)

	sequencer.Start()
	require.Eventually(t, func() bool {
		return len(player.played()) >= 3
	}, time.Second, time.Millisecond)

	sequencer.Stop()
	assert.False(t, sequencer.Active())
	count := len(player.played())
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, count, len(player.played()))
}

func TestRepeatsReadLiveVolume(t *testing.T) {
	player := &fakePlayer{}
	sequencer := New(player, testConfig(), nil)
	defer sequencer.Stop()

	sequencer.Start()
	sequencer.SetVolume(0.9)

	require.Eventually(t, func() bool {
		plays := player.played()
		return len(plays) >= 2 && plays[len(plays)-1].volume == 0.9
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0.5, player.played()[0].volume)
}

func TestDisablingSoundStopsAlert(t *testing.T) {
	player := &fakePlayer{}
	sequencer := New(player, testConfig(), nil)

	sequencer.Start()
	sequencer.SetEnabled(false)

	assert.False(t, sequencer.Active())
	count := len(player.played())
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, count, len(player.played()))

	sequencer.Start()
	assert.Equal(t, count, len(player.played()))
}

func TestMissingAssetFallsBack(t *testing.T) {
	player := &fakePlayer{missing: map[string]bool{"alert": true}}
	sequencer := New(player, testConfig(), nil)
	defer sequencer.Stop()

	sequencer.Start()
	require.Eventually(t, func() bool {
		return len(player.played()) >= 3
	}, time.Second, time.Millisecond)

	for _, play := range player.played() {
		assert.Equal(t, "system", play.asset)
		assert.Equal(t, 0.5, play.volume)
	}
}

func TestRestartCancelsPreviousDriver(t *testing.T) {
	player := &fakePlayer{}
	config := testConfig()
	config.Interval = 20 * time.Millisecond
	sequencer := New(player, config, nil)
	defer sequencer.Stop()

	sequencer.Start()
	sequencer.Start()

	time.Sleep(50 * time.Millisecond)
	// Two immediate plays plus at most three repeats from a single driver.
	assert.LessOrEqual(t, len(player.played()), 5)
}

func TestVolumeIsClamped(t *testing.T) {
	sequencer := New(&fakePlayer{}, Config{Volume: 3}, nil)
	assert.Equal(t, 1.0, sequencer.Volume())

	sequencer.SetVolume(-1)
	assert.Equal(t, 0.0, sequencer.Volume())
	assert.False(t, sequencer.Enabled())
}

type blockingPlayer struct {
	fakePlayer
	started chan struct{}
	release chan struct{}
}

func (player *blockingPlayer) Play(asset string, volume float64) error {
	player.started <- struct{}{}
	<-player.release
	return player.fakePlayer.Play(asset, volume)
}

func TestSlowPlaybackDoesNotBlockControls(t *testing.T) {
	player := &blockingPlayer{started: make(chan struct{}, 1), release: make(chan struct{})}
	config := testConfig()
	config.Interval = time.Hour
	sequencer := New(player, config, nil)

	go sequencer.Start()
	<-player.started

	controlled := make(chan struct{})
	go func() {
		sequencer.SetVolume(0.2)
		sequencer.Stop()
		close(controlled)
	}()
	select {
	case <-controlled:
	case <-time.After(time.Second):
		t.Fatal("SetVolume and Stop blocked behind playback")
	}

	stopsBefore := func() int {
		player.mu.Lock()
		defer player.mu.Unlock()
		return player.stops
	}()
	close(player.release)

	require.Eventually(t, func() bool {
		player.mu.Lock()
		defer player.mu.Unlock()
		return player.stops > stopsBefore
	}, time.Second, time.Millisecond, "late playback is silenced after Stop")
	assert.Equal(t, 0.2, sequencer.Volume())
	assert.False(t, sequencer.Active())
}
