// Package outfmt renders command results as text, JSON or JSON lines.
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Mode is an output format as named on the command line.
type Mode string

const (
	Text  Mode = "text"
	JSON  Mode = "json"
	JSONL Mode = "jsonl" // one compact document per line
)

// settings is the output configuration carried by a command's context.
// Every With* helper stores a modified copy.
type settings struct {
	mode     Mode
	compact  bool
	query    string
	template string
}

type settingsKey struct{}

func fromContext(ctx context.Context) settings {
	s, ok := ctx.Value(settingsKey{}).(settings)
	if !ok {
		s.mode = Text
	}
	return s
}

func with(ctx context.Context, update func(*settings)) context.Context {
	s := fromContext(ctx)
	update(&s)
	return context.WithValue(ctx, settingsKey{}, s)
}

// Parse parses an output mode string. "ndjson" is accepted for JSONL.
func Parse(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case "":
		return Text, nil
	case Text, JSON, JSONL:
		return m, nil
	case "ndjson":
		return JSONL, nil
	default:
		return Text, fmt.Errorf("invalid output format: %q (use 'text', 'json', 'jsonl' or 'ndjson')", s)
	}
}

// WithMode adds the output mode to the context
func WithMode(ctx context.Context, mode Mode) context.Context {
	return with(ctx, func(s *settings) { s.mode = mode })
}

// ModeFromContext retrieves the output mode from context
func ModeFromContext(ctx context.Context) Mode {
	return fromContext(ctx).mode
}

// IsJSON reports whether ctx selects a JSON-based output.
func IsJSON(ctx context.Context) bool {
	mode := ModeFromContext(ctx)
	return mode == JSON || mode == JSONL
}

// IsJSONL reports whether ctx selects JSON lines.
func IsJSONL(ctx context.Context) bool {
	return ModeFromContext(ctx) == JSONL
}

func WithCompact(ctx context.Context, compact bool) context.Context {
	return with(ctx, func(s *settings) { s.compact = compact })
}

// IsCompact reports whether single-line JSON was requested. JSON lines are
// always compact.
func IsCompact(ctx context.Context) bool {
	s := fromContext(ctx)
	return s.compact || s.mode == JSONL
}

// WriteJSON writes v indented. HTML is not escaped since message text
// routinely carries markup.
func WriteJSON(w io.Writer, v any) error {
	return WriteJSONMaybeCompact(w, v, false)
}

func WriteJSONMaybeCompact(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
