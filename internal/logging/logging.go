package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	Level  string    // zerolog level name; empty means info
	Format string    // "console" or "json"
	Output io.Writer // defaults to stderr
}

// New builds the process logger.
func New(opts Options) (zerolog.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}

	switch strings.ToLower(opts.Format) {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", opts.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// ForRun tags the logger with a fresh run id and stores it in ctx.
func ForRun(ctx context.Context, logger zerolog.Logger, command string) (context.Context, zerolog.Logger) {
	runLogger := logger.With().
		Str("run_id", uuid.NewString()).
		Str("command", command).
		Logger()
	return runLogger.WithContext(ctx), runLogger
}
