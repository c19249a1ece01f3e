package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/botwire/botwire/internal/types"
)

const snippetLimit = 512

// envelope is the wrapper of every Bot API response. Pointers distinguish
// absent keys from zero values.
type envelope struct {
	OK          *bool                     `json:"ok"`
	Result      json.RawMessage           `json:"result"`
	Description *string                   `json:"description"`
	ErrorCode   *int                      `json:"error_code"`
	Parameters  *types.ResponseParameters `json:"parameters"`
}

var (
	errMissingOK          = errors.New(`missing "ok" field`)
	errMissingResult      = errors.New(`"ok" is true but "result" is missing`)
	errUnexpectedCode     = errors.New(`"ok" is true but "error_code" is present`)
	errUnexpectedResult   = errors.New(`"ok" is false but "result" is present`)
	errMissingDescription = errors.New(`"ok" is false but "description" is missing`)
)

// decodeResponse classifies a response body into a result, an *APIError or
// an *InvalidJSONError/*DecodeError. The HTTP status is informational: the
// platform reports failures in the envelope for every status.
func decodeResponse[O any](method string, status int, body []byte) (O, error) {
	var zero O

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, &InvalidJSONError{Method: method, StatusCode: status, Snippet: snippet(body), Err: err}
	}
	if env.OK == nil {
		return zero, &InvalidJSONError{Method: method, StatusCode: status, Snippet: snippet(body), Err: errMissingOK}
	}

	hasResult := len(env.Result) > 0 && !bytes.Equal(bytes.TrimSpace(env.Result), []byte("null"))

	if !*env.OK {
		if hasResult {
			return zero, &InvalidJSONError{Method: method, StatusCode: status, Snippet: snippet(body), Err: errUnexpectedResult}
		}
		if env.Description == nil {
			return zero, &InvalidJSONError{Method: method, StatusCode: status, Snippet: snippet(body), Err: errMissingDescription}
		}
		return zero, newAPIError(method, status, env)
	}

	if !hasResult {
		return zero, &InvalidJSONError{Method: method, StatusCode: status, Snippet: snippet(body), Err: errMissingResult}
	}
	// Only error_code invalidates a successful envelope. A description is
	// dropped: setWebhook answers {"ok":true,"result":true,"description":"Webhook was set"}.
	if env.ErrorCode != nil {
		return zero, &InvalidJSONError{Method: method, StatusCode: status, Snippet: snippet(body), Err: errUnexpectedCode}
	}

	var out O
	if err := json.Unmarshal(env.Result, &out); err != nil {
		return zero, &DecodeError{Method: method, Snippet: snippet(env.Result), Err: err}
	}
	return out, nil
}

func newAPIError(method string, status int, env envelope) *APIError {
	code := status
	if env.ErrorCode != nil {
		code = *env.ErrorCode
	}
	apiErr := &APIError{
		Method:      method,
		Code:        code,
		Description: *env.Description,
		Kind:        ClassifyAPIError(code, *env.Description),
	}
	if p := env.Parameters; p != nil {
		if p.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(p.RetryAfter) * time.Second
		}
		apiErr.MigrateToChatID = p.MigrateToChatID
	}
	return apiErr
}

func snippet(body []byte) string {
	if len(body) <= snippetLimit {
		return string(body)
	}
	return string(body[:snippetLimit]) + "..."
}
