// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelOff silences everything below it, which is everything.
const LevelOff = slog.Level(100)

// level is shared by every handler Setup installs so SetLevel takes effect
// immediately.
var level = new(slog.LevelVar)

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "OFF", "NONE":
		return LevelOff, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

func SetLevel(l slog.Level) { level.Set(l) }

func Level() slog.Level { return level.Level() }

// Setup installs the default logger writing to w. pretty selects the
// colored development handler over plain text.
func Setup(w io.Writer, l slog.Level, pretty bool) *slog.Logger {
	SetLevel(l)
	var h slog.Handler
	if pretty {
		h = NewPrettyHandler(w, PrettyHandlerOptions{SlogOpts: slog.HandlerOptions{Level: level}})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func init() {
	if s := os.Getenv("BANDPLOT_LOG_LEVEL"); s != "" {
		if l, err := ParseLevel(s); err == nil {
			SetLevel(l)
		}
	}

	// In test mode, default to ERROR level only
	if strings.HasSuffix(os.Args[0], ".test") {
		SetLevel(slog.LevelError)
	}
}
