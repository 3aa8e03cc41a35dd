// Package logging builds the structured logger shared by the commands.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps debug|info|warn|error onto slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
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

// New returns a text logger writing to w.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// NewFile returns a logger writing to a size-rotated file, for commands that
// own the terminal. Close the returned writer on exit.
func NewFile(path, level string) (*slog.Logger, io.Closer) {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
	}
	return New(w, level), w
}

// Discard is a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, "error")
}
