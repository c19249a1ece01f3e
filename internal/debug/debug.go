// Package debug provides context-based debug mode with structured logging.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const debugKey contextKey = "debug_enabled"

const redacted = "<redacted>"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// SetupLogger configures slog on stderr based on debug mode. Any of secrets
// appearing in a logged string value is replaced before it is written.
func SetupLogger(debugEnabled bool, secrets ...string) {
	slog.SetDefault(NewLogger(os.Stderr, debugEnabled, secrets...))
}

// NewLogger builds the text logger used by SetupLogger.
func NewLogger(w io.Writer, debugEnabled bool, secrets ...string) *slog.Logger {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}

	var replacer *strings.Replacer
	var pairs []string
	for _, s := range secrets {
		if s != "" {
			pairs = append(pairs, s, redacted)
		}
	}
	if len(pairs) > 0 {
		replacer = strings.NewReplacer(pairs...)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if replacer == nil {
				return a
			}
			switch a.Value.Kind() {
			case slog.KindString:
				a.Value = slog.StringValue(replacer.Replace(a.Value.String()))
			case slog.KindAny:
				if err, ok := a.Value.Any().(error); ok {
					a.Value = slog.StringValue(replacer.Replace(err.Error()))
				}
			}
			return a
		},
	})
	return slog.New(handler)
}
