// Package logging builds the application logger backed by a rotating file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "pixelclock.log"

// Options configures the rotating log file.
type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Level      slog.Level
}

// DefaultOptions places the log under the XDG state dir for appName.
func DefaultOptions(appName string) (Options, error) {
	path, err := xdg.StateFile(filepath.Join(appName, logFileName))
	if err != nil {
		return Options{}, fmt.Errorf("resolve log path: %w", err)
	}
	return Options{
		Path:       path,
		MaxSizeMB:  5,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Level:      slog.LevelInfo,
	}, nil
}

// New returns a JSON logger writing to a rotating file and the closer that
// flushes it.
func New(options Options) (*slog.Logger, io.Closer) {
	writer := &lumberjack.Logger{
		Filename:   options.Path,
		MaxSize:    options.MaxSizeMB,
		MaxBackups: options.MaxBackups,
		MaxAge:     options.MaxAgeDays,
	}
	return NewWithWriter(writer, options.Level), writer
}

// NewWithWriter returns a JSON logger on an arbitrary writer.
func NewWithWriter(writer io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
