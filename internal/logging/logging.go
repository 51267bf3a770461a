// Package logging configures the process-wide slog logger for the
// resident modes (watch, serve). One-shot commands talk to the user
// through the printer instead and leave logging at its defaults.
package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gorewood/usher/internal/output"
)

// Options controls the logger target and level.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// File, when set, sends rotated JSON logs to this path instead of
	// stderr.
	File string
}

// Setup installs the default slog logger. A terminal stderr gets tinted
// human output; everything else gets JSON lines.
func Setup(opts Options) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	switch {
	case opts.File != "":
		out := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case output.IsTTY(os.Stderr):
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	default:
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
