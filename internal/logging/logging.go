// Package logging builds the zerolog loggers used by the binaries and adapts
// them to the engine's Logger interface.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w; debug lowers the level from info
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// NewJSON returns a structured JSON logger, for servers whose output is collected
func NewJSON(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// EngineLogger satisfies calculation.Logger on top of a zerolog.Logger
type EngineLogger struct {
	Log zerolog.Logger
}

func (l EngineLogger) Debugf(format string, args ...any) { l.Log.Debug().Msgf(format, args...) }
func (l EngineLogger) Infof(format string, args ...any)  { l.Log.Info().Msgf(format, args...) }
func (l EngineLogger) Warnf(format string, args ...any)  { l.Log.Warn().Msgf(format, args...) }
func (l EngineLogger) Errorf(format string, args ...any) { l.Log.Error().Msgf(format, args...) }
