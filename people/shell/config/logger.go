package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// NewLogger builds the slog logger described by the log section, writing to w.
func NewLogger(c LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	options := &slog.HandlerOptions{Level: level}

	switch c.Format {
	case LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, options)), nil
	case LogFormatText:
		return slog.New(slog.NewTextHandler(w, options)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", raw)
	}

	return level, nil
}
