// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup(slog.LevelInfo)
//
// The configured logger becomes the slog default for the process.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging to stderr at the given level.
func Setup(level slog.Level) {
	slog.SetDefault(New(level))
}

// New returns a tint-backed logger at the given level without installing it
// as the default. Useful for handing components their own logger.
func New(level slog.Level) *slog.Logger {
	return slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	)
}
