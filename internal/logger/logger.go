// Package logger builds the *slog.Logger shared by the API server and the
// console client.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a *slog.Logger configured for the given environment.
//
// Development (dev): colored, human-readable output at DEBUG level.
// Staging: JSON at DEBUG level.
// Production (prod): JSON at INFO level.
func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	case "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	default:
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}))
	}
}

// Err is the attribute every error log uses.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
