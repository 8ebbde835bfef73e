package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// Format selects how log records are encoded.
type Format string

const (
	FormatText   Format = "text"
	FormatLogfmt Format = "logfmt"
	FormatJSON   Format = "json"
)

var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

// CreateHandlerWithStrings creates a [slog.Handler] from level and format
// strings, as accepted by the CLI flags.
func CreateHandlerWithStrings(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	level, err := GetLevel(logLevel)
	if err != nil {
		return nil, err
	}

	format, err := GetFormat(logFormat)
	if err != nil {
		return nil, err
	}

	return CreateHandler(w, level, format), nil
}

// CreateHandler creates a [slog.Handler] backed by a charmbracelet logger.
func CreateHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := log.Options{
		Level:           log.Level(level),
		ReportTimestamp: true,
	}

	switch format {
	case FormatJSON:
		opts.Formatter = log.JSONFormatter
	case FormatLogfmt:
		opts.Formatter = log.LogfmtFormatter
	case FormatText:
		opts.Formatter = log.TextFormatter
	}

	return log.NewWithOptions(w, opts)
}

// GetLevel parses a log level string.
func GetLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug", "trace":
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

// GetFormat parses a log format string.
func GetFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(format)); f {
	case FormatText, FormatLogfmt, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
