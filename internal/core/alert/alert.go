// Package alert repeats an audible alert after a phase completes.
package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Player is the audio host used by the sequencer.
type Player interface {
	Play(asset string, volume float64) error
	Stop()
}

// Config contains alert options.
type Config struct {
	// Asset is the preferred alert sound.
	Asset string
	// FallbackAsset is played when Asset cannot be played.
	FallbackAsset string
	// Interval is the repeat cadence.
	Interval time.Duration
	Enabled  bool
	Volume   float64
}

// Sequencer plays an alert immediately and then repeats it until stopped.
type Sequencer struct {
	mu       sync.Mutex
	player   Player
	config   Config
	cancel   context.CancelFunc
	fallback bool
	logger   *slog.Logger
}

// New creates a sequencer that drives player.
func New(player Player, config Config, logger *slog.Logger) *Sequencer {
	if config.Interval <= 0 {
		config.Interval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	config.Volume = clampVolume(config.Volume)
	return &Sequencer{
		player: player,
		config: config,
		logger: logger,
	}
}

// Start plays the alert now and schedules repeats. Does nothing when sound
// is disabled.
func (sequencer *Sequencer) Start() {
	sequencer.mu.Lock()
	if !sequencer.config.Enabled {
		sequencer.mu.Unlock()
		return
	}
	sequencer.cancelLocked()
	sequencer.fallback = false
	ctx, cancel := context.WithCancel(context.Background())
	sequencer.cancel = cancel
	interval := sequencer.config.Interval
	sequencer.mu.Unlock()

	sequencer.player.Stop()
	sequencer.playOnce(ctx)
	go sequencer.repeat(ctx, interval)
}

// Stop cancels the repeat driver and silences the player.
func (sequencer *Sequencer) Stop() {
	sequencer.mu.Lock()
	active := sequencer.cancel != nil
	sequencer.cancelLocked()
	sequencer.mu.Unlock()

	if active {
		sequencer.player.Stop()
	}
}

// Active reports whether an alert is repeating.
func (sequencer *Sequencer) Active() bool {
	sequencer.mu.Lock()
	defer sequencer.mu.Unlock()
	return sequencer.cancel != nil
}

// SetEnabled toggles sound. Disabling stops a repeating alert.
func (sequencer *Sequencer) SetEnabled(enabled bool) {
	sequencer.mu.Lock()
	sequencer.config.Enabled = enabled
	sequencer.mu.Unlock()

	if !enabled {
		sequencer.Stop()
	}
}

// Enabled reports whether sound is enabled.
func (sequencer *Sequencer) Enabled() bool {
	sequencer.mu.Lock()
	defer sequencer.mu.Unlock()
	return sequencer.config.Enabled
}

// SetVolume changes the volume used by the next playback.
func (sequencer *Sequencer) SetVolume(volume float64) {
	sequencer.mu.Lock()
	sequencer.config.Volume = clampVolume(volume)
	sequencer.mu.Unlock()
}

// Volume returns the current volume in [0, 1].
func (sequencer *Sequencer) Volume() float64 {
	sequencer.mu.Lock()
	defer sequencer.mu.Unlock()
	return sequencer.config.Volume
}

func (sequencer *Sequencer) repeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sequencer.playOnce(ctx)
		}
	}
}

// playOnce reads the asset and live volume under the lock and plays outside
// it. A Stop that lands during playback silences the player afterwards.
func (sequencer *Sequencer) playOnce(ctx context.Context) {
	sequencer.mu.Lock()
	if ctx.Err() != nil {
		sequencer.mu.Unlock()
		return
	}
	asset := sequencer.config.Asset
	if sequencer.fallback {
		asset = sequencer.config.FallbackAsset
	}
	fallbackAsset := sequencer.config.FallbackAsset
	usingFallback := sequencer.fallback
	volume := sequencer.config.Volume
	sequencer.mu.Unlock()

	err := sequencer.player.Play(asset, volume)
	if err != nil && !usingFallback {
		sequencer.logger.Warn("alert asset unavailable, using fallback",
			"asset", asset, "error", err)
		sequencer.mu.Lock()
		if ctx.Err() == nil {
			sequencer.fallback = true
		}
		sequencer.mu.Unlock()
		err = sequencer.player.Play(fallbackAsset, volume)
	}
	if err != nil {
		sequencer.logger.Warn("fallback alert failed", "error", err)
	}

	if ctx.Err() != nil {
		sequencer.player.Stop()
	}
}

func (sequencer *Sequencer) cancelLocked() {
	if sequencer.cancel != nil {
		sequencer.cancel()
		sequencer.cancel = nil
	}
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
