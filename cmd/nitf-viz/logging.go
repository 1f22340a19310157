package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LevelTrace is below Debug.
const LevelTrace = slog.LevelDebug - 4

// parseLevel maps a --level value to a slog level. off reports that
// logging is disabled entirely.
func parseLevel(s string) (level slog.Level, off bool, err error) {
	switch strings.ToLower(s) {
	case "off":
		return 0, true, nil
	case "error":
		return slog.LevelError, false, nil
	case "warn":
		return slog.LevelWarn, false, nil
	case "info":
		return slog.LevelInfo, false, nil
	case "debug":
		return slog.LevelDebug, false, nil
	case "trace":
		return LevelTrace, false, nil
	default:
		return 0, false, fmt.Errorf("unknown log level %q (want off, error, warn, info, debug or trace)", s)
	}
}

// newLogger returns a text logger writing to w at the given level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, off, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if off {
		return slog.New(slog.DiscardHandler), nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if l, ok := a.Value.Any().(slog.Level); ok && l <= LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	})), nil
}

// parserLogger returns the logger handed to the container parser when
// --nitf-log is set. Its records pass through the same level filter as
// everything else.
func parserLogger(l *slog.Logger) *slog.Logger {
	return l.With("component", "parser")
}
