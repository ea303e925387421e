// Package log provides the leveled logger shared by services and handlers.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is handed to services through their constructors.
type Log struct {
	zerolog.Logger
}

// New builds a Log writing to out. format is "json" or "console"; level is a
// zerolog level name and defaults to info when it cannot be parsed.
func New(out io.Writer, level, format string) Log {
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return Log{zerolog.New(out).Level(lvl).With().Timestamp().Logger()}
}

// Nop returns a Log that discards everything.
func Nop() Log {
	return Log{zerolog.Nop()}
}
