// Package logging builds the slog loggers used across the binary.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Config selects the handler and level of a logger.
type Config struct {
	// Writer defaults to os.Stderr.
	Writer io.Writer
	// Level is one of debug, info, warn, error.
	Level string
	// Format is tint (colored), text or json.
	Format    string
	AddSource bool
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// New builds a logger from cfg.
func New(cfg Config) (*slog.Logger, error) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	level := slog.LevelInfo
	if cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	opts := &slog.HandlerOptions{AddSource: cfg.AddSource, Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "tint":
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	case "text":
		handler = slog.NewTextHandler(cfg.Writer, opts)
	case "json":
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
