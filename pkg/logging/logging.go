// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup("debug")                          // level by name
//	logging.SetupWithLevel(os.Stderr, slog.LevelWarn) // explicit writer and level
//
// Level names: debug, info, warn, error. Anything else means info.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging on stderr at the named level.
func Setup(level string) {
	SetupWithLevel(os.Stderr, ParseLevel(level))
}

// SetupWithLevel configures colored logging on w at the given level and
// installs it as the slog default.
func SetupWithLevel(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  level == slog.LevelDebug,
		}),
	)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
