package api

import (
	"context"
	"encoding/json"
)

// RawPayload calls any method with dynamically built JSON parameters. The
// result is returned undecoded.
type RawPayload struct {
	JSON[json.RawMessage] `json:"-"`

	Method string
	Params map[string]any
}

// NewRawPayload creates a RawPayload. params may be nil.
func NewRawPayload(method string, params map[string]any) RawPayload {
	return RawPayload{Method: method, Params: params}
}

func (p RawPayload) MethodName() string { return p.Method }

func (p RawPayload) MarshalJSON() ([]byte, error) {
	if p.Params == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.Params)
}

// Send executes the payload.
func (p RawPayload) Send(ctx context.Context, b Bot) (json.RawMessage, error) {
	return ExecuteJSON[json.RawMessage](ctx, b, p)
}

// RawMultipartPayload calls any method with an ordered list of multipart
// fields. Field values follow the same rules as struct payload fields:
// types.InputFile uploads become file parts, scalars text parts, anything
// else JSON text parts.
type RawMultipartPayload struct {
	Multipart[json.RawMessage]

	Method string
	Fields []FormField
}

// NewRawMultipartPayload creates a RawMultipartPayload.
func NewRawMultipartPayload(method string, fields ...FormField) RawMultipartPayload {
	return RawMultipartPayload{Method: method, Fields: fields}
}

func (p RawMultipartPayload) MethodName() string { return p.Method }

func (p RawMultipartPayload) FormFields() []FormField { return p.Fields }

// With returns a copy with one more field appended.
func (p RawMultipartPayload) With(name string, value any) RawMultipartPayload {
	fields := make([]FormField, len(p.Fields), len(p.Fields)+1)
	copy(fields, p.Fields)
	p.Fields = append(fields, FormField{Name: name, Value: value})
	return p
}

// Send executes the payload.
func (p RawMultipartPayload) Send(ctx context.Context, b Bot) (json.RawMessage, error) {
	return ExecuteMultipart[json.RawMessage](ctx, b, p)
}
