// Package logging configures structured logging with log/slog.
//
// Usage:
//
//	logging.Setup()                          // level/format from env
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//
// Environment variables:
//
//	LOG_LEVEL:  debug, info, warn, error (default: info)
//	LOG_FORMAT: text (colored, via tint) or json (default: text)
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures the default logger from LOG_LEVEL and LOG_FORMAT.
func Setup() {
	SetupWithLevel(levelFromEnv())
}

// SetupWithLevel configures the default logger at the given level.
func SetupWithLevel(level slog.Level) {
	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	}
	slog.SetDefault(slog.New(handler))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
