// Package audio plays alert sounds through the system speaker.
package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// SystemSound names the built-in alert tone.
const SystemSound = "system"

const (
	defaultSampleRate beep.SampleRate = 44100
	toneFrequency                     = 1760.0
	toneDuration                      = 120 * time.Millisecond
)

// ErrAssetUnavailable indicates the requested sound could not be loaded.
var ErrAssetUnavailable = errors.New("alert asset unavailable")

var errInvalidSoundFormat = errors.New("unsupported sound format")

// alertExtensions are searched in order when looking up the custom alert.
var alertExtensions = []string{".wav", ".mp3", ".ogg", ".flac"}

// Service plays decoded sound files and a synthesized alert tone through
// one speaker it owns.
type Service struct {
	mu          sync.Mutex
	buffers     map[string]*beep.Buffer
	sampleRate  beep.SampleRate
	initialized bool

	initSpeaker func(rate beep.SampleRate, bufferSize int) error
	output      func(streamer beep.Streamer)
	clear       func()
	systemBeep  func() error
	logger      *slog.Logger
}

// New creates an audio service. The speaker is initialised lazily with the
// sample rate of the first sound played.
func New(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		buffers:     make(map[string]*beep.Buffer),
		initSpeaker: speaker.Init,
		output: func(streamer beep.Streamer) {
			speaker.Clear()
			speaker.Play(streamer)
		},
		clear: speaker.Clear,
		systemBeep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
		logger: logger,
	}
}

// FindAlert looks up a custom alert named "alert" in the application data
// directory. An empty path and an error are returned when none exists.
func FindAlert(appDir string) (string, error) {
	for _, ext := range alertExtensions {
		path, err := xdg.SearchDataFile(filepath.Join(appDir, "alert"+ext))
		if err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no alert file in %s", ErrAssetUnavailable, filepath.Join(xdg.DataHome, appDir))
}

// Play starts asset from the beginning at volume in [0, 1], replacing any
// sound that is still playing. SystemSound is a short synthesized tone; the
// platform beep is used only when the speaker cannot start.
func (service *Service) Play(asset string, volume float64) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if asset == SystemSound {
		return service.playToneLocked(volume)
	}

	buffer, err := service.loadLocked(asset)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAssetUnavailable, asset, err)
	}
	service.output(withVolume(buffer.Streamer(0, buffer.Len()), volume))
	return nil
}

// Stop silences the speaker.
func (service *Service) Stop() {
	service.mu.Lock()
	defer service.mu.Unlock()
	if service.initialized {
		service.clear()
	}
}

func (service *Service) playToneLocked(volume float64) error {
	if err := service.ensureSpeakerLocked(defaultSampleRate); err != nil {
		if volume <= 0 {
			return nil
		}
		service.logger.Debug("speaker unavailable, using system beep", "error", err)
		if beepErr := service.systemBeep(); beepErr != nil {
			return fmt.Errorf("system beep: %w", errors.Join(err, beepErr))
		}
		return nil
	}

	tone, err := generators.SineTone(service.sampleRate, toneFrequency)
	if err != nil {
		return fmt.Errorf("alert tone: %w", err)
	}
	service.output(withVolume(beep.Take(service.sampleRate.N(toneDuration), tone), volume))
	return nil
}

func (service *Service) ensureSpeakerLocked(rate beep.SampleRate) error {
	if service.initialized {
		return nil
	}
	if err := service.initSpeaker(rate, rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	service.sampleRate = rate
	service.initialized = true
	service.logger.Debug("speaker initialised", "sample_rate", int(rate))
	return nil
}

func (service *Service) loadLocked(asset string) (*beep.Buffer, error) {
	if asset == "" {
		return nil, errors.New("no asset configured")
	}
	if buffer, ok := service.buffers[asset]; ok {
		return buffer, nil
	}

	file, err := os.Open(asset)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)

	switch strings.ToLower(filepath.Ext(asset)) {
	case ".wav":
		stream, format, err = wav.Decode(file)
	case ".mp3":
		stream, format, err = mp3.Decode(file)
	case ".ogg":
		stream, format, err = vorbis.Decode(file)
	case ".flac":
		stream, format, err = flac.Decode(file)
	default:
		return nil, errInvalidSoundFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(asset), err)
	}
	defer func() {
		_ = stream.Close()
	}()

	if err := service.ensureSpeakerLocked(format.SampleRate); err != nil {
		return nil, err
	}

	target := beep.Format{SampleRate: service.sampleRate, NumChannels: format.NumChannels, Precision: format.Precision}
	buffer := beep.NewBuffer(target)
	if format.SampleRate == service.sampleRate {
		buffer.Append(stream)
	} else {
		buffer.Append(beep.Resample(4, format.SampleRate, service.sampleRate, stream))
	}

	service.buffers[asset] = buffer
	return buffer, nil
}

func withVolume(streamer beep.Streamer, volume float64) *effects.Volume {
	return &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   gain(volume),
		Silent:   volume <= 0,
	}
}

// gain converts a linear volume into the base-2 exponent used by
// effects.Volume.
func gain(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	if volume > 1 {
		volume = 1
	}
	return math.Log2(volume)
}
