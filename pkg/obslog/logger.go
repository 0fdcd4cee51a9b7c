// Package obslog provides the structured logging used across the hazard
// pipeline's stages. Grounded on the teacher's pkg/reporting/logger.go
// (LoggerConfig{Level,Format,Output} wrapping zerolog, with a
// ConsoleWriter branch for text output).
package obslog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is the minimum severity a Logger emits.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects how log lines are rendered.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures a Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger wraps a zerolog.Logger with the level/format setup the pipeline's
// stages share.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger from cfg, defaulting Output to stdout.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	var output io.Writer = cfg.Output
	if cfg.Format == FormatText {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(output).With().Timestamp().Logger().Level(level(cfg.Level))
	return &Logger{z: z}
}

func level(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs msg at debug level with the given key/value pairs.
func (l *Logger) Debug(msg string, fields ...interface{}) { l.event(l.z.Debug(), msg, fields) }

// Info logs msg at info level with the given key/value pairs.
func (l *Logger) Info(msg string, fields ...interface{}) { l.event(l.z.Info(), msg, fields) }

// Warn logs msg at warn level with the given key/value pairs.
func (l *Logger) Warn(msg string, fields ...interface{}) { l.event(l.z.Warn(), msg, fields) }

// Error logs msg at error level with the given key/value pairs.
func (l *Logger) Error(msg string, fields ...interface{}) { l.event(l.z.Error(), msg, fields) }

func (l *Logger) event(e *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	e.Msg(msg)
}

// WithSourceSet returns a child logger tagged with the source-set name, the
// unit of work a fan-out task carries through the pipeline stages.
func (l *Logger) WithSourceSet(name string) *Logger {
	return &Logger{z: l.z.With().Str("source_set", name).Logger()}
}

// WithSite returns a child logger tagged with a site identifier.
func (l *Logger) WithSite(id string) *Logger {
	return &Logger{z: l.z.With().Str("site", id).Logger()}
}
