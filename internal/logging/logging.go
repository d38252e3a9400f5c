// Package logging sets up the process-wide zerolog logger.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to a zerolog level. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup sets the global level and UTC timestamps and returns a console logger
// writing to out. When file is non-nil the same entries are also written to it
// without colors.
//
// Parameters:
//   - level: level name (trace, debug, info, warn, error)
//   - out: console destination
//   - file: optional plain-text destination, may be nil
//
// Returns:
//   - zerolog.Logger: the logger
func Setup(level string, out io.Writer, file io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

// Sampled wraps l for high-frequency paths such as per-mouse-move traces:
// at most 5 entries per second, then 1 in 100.
//
// Parameters:
//   - l: the logger to wrap
//
// Returns:
//   - zerolog.Logger: the sampled logger
func Sampled(l zerolog.Logger) zerolog.Logger {
	return l.With().Bool("sampled", true).Logger().Sample(&zerolog.BurstSampler{
		Burst:       5,
		Period:      time.Second,
		NextSampler: &zerolog.BasicSampler{N: 100},
	})
}
