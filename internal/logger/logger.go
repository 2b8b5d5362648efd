package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// LevelEnv overrides the log level when --log-level is not given.
const LevelEnv = "PAYEECLEAN_LOG_LEVEL"

// New returns a console logger writing to stderr at info level.
func New() zerolog.Logger {
	return NewConsole(os.Stderr)
}

// NewConsole returns a human-readable logger writing to w at info level.
func NewConsole(w io.Writer) zerolog.Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true})
}

// NewWithWriter returns a logger writing JSON lines to w.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// ParseLevel converts a level name to a zerolog level. An empty name means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return lvl, nil
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(zerolog.Logger); ok {
			return l
		}
	}
	return zerolog.Nop()
}
