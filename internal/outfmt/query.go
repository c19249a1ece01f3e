package outfmt

import (
	"context"
	"encoding/json"
	"io"

	"github.com/botwire/botwire/internal/filter"
)

// WithQuery sets the jq expression applied to structured output.
func WithQuery(ctx context.Context, query string) context.Context {
	return with(ctx, func(s *settings) { s.query = query })
}

func GetQuery(ctx context.Context) string {
	return fromContext(ctx).query
}

// WriteJSONFiltered writes v as JSON after applying query.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSONMaybeCompact(w, result, compact)
}

// ApplyQuery converts v to its generic JSON form and applies query to it.
// Field names in the result are the wire names, not the Go ones.
func ApplyQuery(v any, query string) (any, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	return filter.Apply(generic, query)
}

func toGeneric(v any) (any, error) {
	var data []byte
	switch t := v.(type) {
	case json.RawMessage:
		data = t
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
