// Package logging provides structured logging for every stage of a run.
//
// Stages take a Logger so tests can pass NewSilentLogger and the CLI can
// pass one built by Setup.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelSilent:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// LevelForVerbosity maps a -v count to a level: warnings by default,
// info at -v, debug from -vv.
func LevelForVerbosity(verbosity int) Level {
	switch {
	case verbosity <= 0:
		return LevelWarn
	case verbosity == 1:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// Logger provides structured logging with configurable levels
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value any
}

// F is a convenience function for creating fields
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// zeroLogger implements Logger on top of zerolog
type zeroLogger struct {
	zl zerolog.Logger
}

// New creates a logger writing JSON lines to out at level.
func New(level Level, out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &zeroLogger{zl: zerolog.New(out).Level(level.zerolog()).With().Timestamp().Logger()}
}

// Setup creates a human-readable console logger for the CLI.
func Setup(verbosity int, out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}
	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
	}
	zl := zerolog.New(console).Level(LevelForVerbosity(verbosity).zerolog()).With().Timestamp().Logger()
	if verbosity >= 2 {
		zl = zl.With().Caller().Logger()
	}
	return &zeroLogger{zl: zl}
}

// NewSilentLogger creates a logger that outputs nothing
func NewSilentLogger() Logger {
	return &zeroLogger{zl: zerolog.Nop()}
}

// Component returns l tagged with a component field.
func Component(l Logger, name string) Logger {
	if l == nil {
		l = NewSilentLogger()
	}
	return l.WithFields(F("component", name))
}

// WithFields returns a new logger with additional fields
func (l *zeroLogger) WithFields(fields ...Field) Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &zeroLogger{zl: ctx.Logger()}
}

// Debug logs a debug message
func (l *zeroLogger) Debug(msg string, fields ...Field) {
	l.log(l.zl.Debug(), msg, fields)
}

// Info logs an info message
func (l *zeroLogger) Info(msg string, fields ...Field) {
	l.log(l.zl.Info(), msg, fields)
}

// Warn logs a warning message
func (l *zeroLogger) Warn(msg string, fields ...Field) {
	l.log(l.zl.Warn(), msg, fields)
}

// Error logs an error message
func (l *zeroLogger) Error(msg string, fields ...Field) {
	l.log(l.zl.Error(), msg, fields)
}

func (l *zeroLogger) log(ev *zerolog.Event, msg string, fields []Field) {
	// Disabled levels return a nil event
	if ev == nil {
		return
	}
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			ev = ev.AnErr(f.Key, err)
			continue
		}
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}
