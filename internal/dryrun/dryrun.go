// Package dryrun previews Bot API calls without sending them.
package dryrun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview describes a request that would have been sent.
type Preview struct {
	Method   string         `json:"method"`
	Endpoint string         `json:"endpoint"`
	Params   map[string]any `json:"params"`
	Warnings []string       `json:"warnings,omitempty"`
}

// New builds a preview from a JSON-serializable payload. Params holds exactly
// the fields that would go on the wire; numbers are kept as json.Number so
// large chat IDs print verbatim.
func New(method, endpoint string, payload any) (*Preview, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode payload: %w", method, err)
	}
	params := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("%s: payload is not a JSON object: %w", method, err)
	}
	return &Preview{Method: method, Endpoint: endpoint, Params: params}, nil
}

// Warn appends a warning shown with the preview.
func (p *Preview) Warn(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[DRY-RUN] Would call %s\n", p.Method)
	fmt.Fprintf(&b, "  POST %s\n", p.Endpoint)

	if len(p.Params) > 0 {
		keys := make([]string, 0, len(p.Params))
		for k := range p.Params {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		b.WriteString("\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", k, formatValue(p.Params[k]))
		}
	}

	if len(p.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, warning := range p.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", warning)
		}
	}

	b.WriteString("\nNothing sent (dry-run mode)\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
