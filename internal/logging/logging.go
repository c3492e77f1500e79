// Package logging installs the process-wide slog handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the log file written next to the prediction files.
const DefaultFileName = "logs_results.log"

// Options configures Setup.
type Options struct {
	// Dir holds the log file. Empty disables file logging.
	Dir      string
	FileName string
	Level    slog.Level
	// Format is "text" or "json".
	Format string
	// Stderr also receives every record. Nil disables console logging.
	Stderr io.Writer
}

// ParseLevel maps a level name to a slog.Level; empty selects info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// Setup replaces the slog default with a handler writing to the log file and
// to opts.Stderr. The returned func closes the log file.
func Setup(opts Options) (func() error, error) {
	var writers []io.Writer
	closer := func() error { return nil }

	if opts.Dir != "" {
		name := opts.FileName
		if name == "" {
			name = DefaultFileName
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, f)
		closer = f.Close
	}
	if opts.Stderr != nil {
		writers = append(writers, opts.Stderr)
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	Init(opts.Level, opts.Format, w)
	return closer, nil
}

// Init configures the global slog default with the given level and format.
// If w is nil, os.Stderr is used. Format must be "text" or "json".
func Init(level slog.Level, format string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, hopts)
	default:
		handler = slog.NewTextHandler(w, hopts)
	}

	slog.SetDefault(slog.New(handler))
}

// New returns a logger with a "component" attribute for module-scoped logging.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}
