// Package logging builds the zerolog logger shared by the store, the CLI and
// the terminal UI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger appending to path. The returned closer releases
// the file.
func New(path, level string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return build(f, level), f, nil
}

// NewConsole returns a human readable logger on w, used by CLI subcommands
// with --verbose
func NewConsole(w io.Writer, level string) zerolog.Logger {
	return build(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}, level)
}

func build(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Str("app", "taskflow").Logger()
}

// ParseLevel maps a config string to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}
