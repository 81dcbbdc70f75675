package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Options tune the handler picked by Init. Zero values fall back to the
// environment defaults: JSON at info in production, text at debug elsewhere.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

func Init(env string, opts ...Options) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}

	level := slog.LevelDebug
	format := "text"
	if env == "production" {
		level = slog.LevelInfo
		format = "json"
	}
	if o.Level != "" {
		level = parseLevel(o.Level)
	}
	if o.Format != "" {
		format = o.Format
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(o.Output, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(o.Output, &slog.HandlerOptions{Level: level})
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}

// Discard returns a logger that drops everything; handy in tests and CLI
// commands that only want errors surfaced through their return values.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
