// Package logger builds the structured zerolog.Logger every process in
// this module (relay, participant, coordinator) logs through, grounded on
// slowdrip-network-slowdrip-miner's internal/logger package.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a zerolog.Logger: JSON to stdout by default, RFC3339Nano
// timestamps, level parsed from levelStr, with a pretty console writer
// when LOG_PRETTY=1 (local development only).
func New(levelStr string) zerolog.Logger {
	level := parseLevel(levelStr)

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "ts"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "msg"

	var out io.Writer = os.Stdout
	if os.Getenv("LOG_PRETTY") == "1" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000"}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithCeremony returns a child logger tagged with a ceremony's identity,
// the fields every round-level log line in participant carries.
func WithCeremony(l zerolog.Logger, ceremonyID, kind string, self string) zerolog.Logger {
	return l.With().Str("ceremony_id", ceremonyID).Str("kind", kind).Str("self", self).Logger()
}
