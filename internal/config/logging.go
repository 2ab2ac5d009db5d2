package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func NewLogger(cfg LoggingConfig) zerolog.Logger {
	logger := NewLoggerTo(os.Stdout, cfg)
	log.Logger = logger
	return logger
}

// NewLoggerTo builds the service logger on an arbitrary writer. The global
// zerolog logger is left untouched.
func NewLoggerTo(w io.Writer, cfg LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := w
	if strings.EqualFold(cfg.Format, "console") {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Str("service", "campus-events").Logger()
}
