package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Format "console" gives human-readable
// output, anything else is JSON.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level: %w", err)
	}

	var logger zerolog.Logger
	if format == "console" {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(out)
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(lvl).With().Timestamp().Logger(), nil
}
