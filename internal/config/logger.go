package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a leveled logger writing JSON lines to w. An unknown
// level falls back to info.
func NewLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// NewConsoleLogger is NewLogger with human-readable output for servers.
func NewConsoleLogger(level string, w io.Writer) zerolog.Logger {
	return NewLogger(level, zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
}

// OpenLogFile opens (appending) name under dir, creating dir. Terminal
// clients log here so output never lands on the screen.
func OpenLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
