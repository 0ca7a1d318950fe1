// Package logx builds the zerolog logger shared by the CLI and its collaborators.
package logx

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05"

// Config selects level and output format.
type Config struct {
	Level   string `json:"level,omitempty"`
	Console *bool  `json:"console,omitempty"`
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// New returns a logger writing to w (stderr when nil). Console output is the
// default; set Console to false for JSON lines.
func New(cfg Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Console == nil || *cfg.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	}
	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// Took is a small helper for timing a step.
func Took(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
