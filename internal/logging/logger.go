// Package logging builds the zerolog loggers used by the command line tools
// and the file-level converter.
//
// Example usage:
//
//	logger, closer := logging.New(logging.Config{Level: "debug", Format: "console"})
//	defer closer.Close()
//	logger.Info().Str("file", path).Msg("processing")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	// Unknown values fall back to info.
	Level string

	// Format is "console" (human readable) or "json".
	Format string

	// Output is "stderr", "stdout", "discard" or a file path. A file that
	// cannot be opened falls back to stderr.
	Output string

	// NoColor disables color in console mode.
	NoColor bool

	// Writer, when set, replaces Output.
	Writer io.Writer
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  "console",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger from cfg. The returned closer releases the log file
// when Output names one; it is always safe to call.
func New(cfg Config) (zerolog.Logger, io.Closer) {
	level := ParseLevel(cfg.Level)

	output, closer := openOutput(cfg)

	var writer io.Writer = output
	if strings.ToLower(cfg.Format) != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	}

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger, closer
}

// ParseLevel parses a log level string, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func openOutput(cfg Config) (io.Writer, io.Closer) {
	if cfg.Writer != nil {
		return cfg.Writer, nopCloser{}
	}

	switch strings.ToLower(cfg.Output) {
	case "stdout":
		return os.Stdout, nopCloser{}
	case "", "stderr":
		return os.Stderr, nopCloser{}
	case "discard", "none":
		return io.Discard, nopCloser{}
	}

	file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return os.Stderr, nopCloser{}
	}
	return file, file
}
