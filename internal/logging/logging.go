// Package logging adapts zerolog to the calculation.Logger interface
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rs/zerolog"
)

// Options control how a root logger is built
type Options struct {
	Level  string // debug, info, warn, error
	Format string // "console" or "json"
	Output io.Writer
}

// New builds a root zerolog logger from options
func New(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (valid: console, json)", opts.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// ParseLevel converts a level name into a zerolog level; empty means info
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Component returns a child logger tagged with a component name
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// CalcLogger implements calculation.Logger on top of zerolog
type CalcLogger struct {
	log zerolog.Logger
}

var _ calculation.Logger = CalcLogger{}

// NewCalcLogger wraps log for use by the calculation engine
func NewCalcLogger(log zerolog.Logger) CalcLogger {
	return CalcLogger{log: log}
}

func (l CalcLogger) Debugf(format string, args ...any) { l.log.Debug().Msgf(format, args...) }
func (l CalcLogger) Infof(format string, args ...any)  { l.log.Info().Msgf(format, args...) }
func (l CalcLogger) Warnf(format string, args ...any)  { l.log.Warn().Msgf(format, args...) }
func (l CalcLogger) Errorf(format string, args ...any) { l.log.Error().Msgf(format, args...) }
