package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"
	"time"
)

// WithTemplate sets a Go template rendered against structured output.
func WithTemplate(ctx context.Context, tmpl string) context.Context {
	return with(ctx, func(s *settings) { s.template = tmpl })
}

func GetTemplate(ctx context.Context) string {
	return fromContext(ctx).template
}

// templateFuncs are available to every --template. Values reach them in
// their generic JSON form, so numbers are float64.
var templateFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		data, err := json.MarshalIndent(v, "", "  ")
		return string(data), err
	},
	// date formats a Bot API unix timestamp in UTC.
	"date": func(v any) string {
		secs, ok := v.(float64)
		if !ok || secs == 0 {
			return ""
		}
		return time.Unix(int64(secs), 0).UTC().Format(time.RFC3339)
	},
	"join": func(sep string, v any) string {
		items, ok := v.([]any)
		if !ok {
			return fmt.Sprint(v)
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, sep)
	},
	"default": func(def, v any) any {
		if v == nil || v == "" {
			return def
		}
		return v
	},
}

// WriteTemplate renders v with a Go text/template. The template sees the
// JSON form of v, so fields are addressed by wire name: {{.message_id}}.
func WriteTemplate(w io.Writer, v any, tmpl string) error {
	t, err := template.New("output").Funcs(templateFuncs).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return templateError("invalid template", err)
	}
	data, err := toGeneric(v)
	if err != nil {
		return err
	}
	if err := t.Execute(w, data); err != nil {
		return templateError("template execution error", err)
	}
	return nil
}

// Template errors read "template: output:1:7: ..."; the position is pulled
// to the front. Parse errors may carry a line only.
var templatePos = regexp.MustCompile(`output:(\d+)(?::(\d+))?:\s*`)

func templateError(kind string, err error) error {
	msg := err.Error()
	m := templatePos.FindStringSubmatchIndex(msg)
	if m == nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	pos := "line " + msg[m[2]:m[3]]
	if m[4] >= 0 {
		pos += ", column " + msg[m[4]:m[5]]
	}
	return fmt.Errorf("%s at %s: %s", kind, pos, msg[m[1]:])
}
