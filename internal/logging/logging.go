// Package logging provides the structured logger shared by both transports.
//
// Output is written to stderr by default because stdout carries the MCP
// protocol stream.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Fields represents structured log fields.
type Fields map[string]interface{}

// Logger writes leveled events tagged with a component name.
type Logger struct {
	logger zerolog.Logger
}

// New creates a JSON logger writing to w.
func New(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{
		logger: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// NewConsole creates a human-readable logger writing to w.
func NewConsole(w io.Writer, level zerolog.Level) *Logger {
	return New(zerolog.ConsoleWriter{Out: w, NoColor: true}, level)
}

// NewFromConfig creates a logger from config strings. format is "json" or
// "console".
func NewFromConfig(w io.Writer, level, format string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if format == "console" {
		return NewConsole(w, lvl), nil
	}
	return New(w, lvl), nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// ParseLevel maps debug, info, warn and error to zerolog levels.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
}

// With returns a child logger that adds fields to every event.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{logger: l.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}

func (l *Logger) Debug(component, message string, fields Fields) {
	l.write(l.logger.Debug(), component, fields).Msg(message)
}

func (l *Logger) Info(component, message string, fields Fields) {
	l.write(l.logger.Info(), component, fields).Msg(message)
}

func (l *Logger) Warn(component, message string, fields Fields) {
	l.write(l.logger.Warn(), component, fields).Msg(message)
}

// Error logs err with message at error level.
func (l *Logger) Error(component, message string, err error, fields Fields) {
	l.write(l.logger.Error().Err(err), component, fields).Msg(message)
}

func (l *Logger) write(event *zerolog.Event, component string, fields Fields) *zerolog.Event {
	event = event.Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	return event
}
