package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents machine-readable error codes for scripted callers.
type ErrorCode string

const (
	// ErrBadRequest indicates the platform rejected the parameters (400).
	ErrBadRequest ErrorCode = "bad_request"
	// ErrUnauthorized indicates an invalid bot token (401).
	ErrUnauthorized ErrorCode = "unauthorized"
	// ErrForbidden indicates the bot may not act in the chat (403).
	ErrForbidden ErrorCode = "forbidden"
	// ErrNotFound indicates an unknown method or token (404).
	ErrNotFound ErrorCode = "not_found"
	// ErrConflict indicates a webhook/getUpdates conflict (409).
	ErrConflict ErrorCode = "conflict"
	// ErrRateLimited indicates flood control (429).
	ErrRateLimited ErrorCode = "rate_limited"
	// ErrServerError indicates a platform-side failure (5xx).
	ErrServerError ErrorCode = "server_error"
	// ErrNetwork indicates a transport failure.
	ErrNetwork ErrorCode = "network"
	// ErrTimeout indicates the request timed out.
	ErrTimeout ErrorCode = "timeout"
	// ErrInvalidResponse indicates a malformed response envelope.
	ErrInvalidResponse ErrorCode = "invalid_response"
	// ErrDecode indicates a result that does not match the expected type.
	ErrDecode ErrorCode = "decode_failed"
	// ErrEncode indicates a payload that could not be serialized.
	ErrEncode ErrorCode = "encode_failed"
	// ErrForm indicates a multipart body that could not be built.
	ErrForm ErrorCode = "form_failed"
	// ErrUnknown indicates an unknown or unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError, ErrNetwork, ErrTimeout:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrUnauthorized, ErrNotFound:
		return "Check the bot token (run 'botctl auth login' or set BOT_TOKEN)"
	case ErrForbidden:
		return "The bot was blocked, kicked, or lacks rights in this chat"
	case ErrBadRequest:
		return "Check the method parameters"
	case ErrConflict:
		return "Delete the webhook or stop the other getUpdates consumer"
	case ErrRateLimited:
		return "Wait for the retry_after interval before retrying"
	case ErrServerError:
		return "The platform encountered an error; try again later"
	case ErrNetwork:
		return "Check network connectivity; the remote effect of the call is unknown"
	case ErrTimeout:
		return "The request timed out; the remote effect of the call is unknown"
	case ErrInvalidResponse:
		return "Check --api-url points at a Bot API server"
	case ErrDecode:
		return "The server returned an unexpected shape; the client may be outdated"
	case ErrForm:
		return "Check that the files to upload exist and are readable"
	default:
		return ""
	}
}

// ErrorCodeFromAPICode maps an envelope error_code to an ErrorCode.
func ErrorCodeFromAPICode(code int) ErrorCode {
	switch code {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 429:
		return ErrRateLimited
	default:
		if code >= 500 && code < 600 {
			return ErrServerError
		}
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type Alias StructuredError
	return json.Marshal((*Alias)(e))
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

func newStructuredErrorWithContext(code ErrorCode, message string, ctx map[string]any) *StructuredError {
	err := NewStructuredError(code, message)
	err.Context = ctx
	return err
}

// CodeFromError classifies any error returned by this package.
func CodeFromError(err error) ErrorCode {
	if s := StructuredErrorFromError(err); s != nil {
		return s.Code
	}
	return ""
}

// StructuredErrorFromError converts an error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var structured *StructuredError
	if errors.As(err, &structured) {
		return structured
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		ctx := map[string]any{
			"method":     apiErr.Method,
			"error_code": apiErr.Code,
			"kind":       string(apiErr.Kind),
		}
		if apiErr.RetryAfter > 0 {
			ctx["retry_after"] = int(apiErr.RetryAfter.Seconds())
		}
		if apiErr.MigrateToChatID != 0 {
			ctx["migrate_to_chat_id"] = apiErr.MigrateToChatID
		}
		return newStructuredErrorWithContext(ErrorCodeFromAPICode(apiErr.Code), apiErr.Description, ctx)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		code := ErrNetwork
		if netErr.Timeout() {
			code = ErrTimeout
		}
		return newStructuredErrorWithContext(code, netErr.Error(), map[string]any{
			"method":                netErr.Method,
			"remote_effect_unknown": netErr.RemoteEffectUnknown(),
		})
	}

	var invalid *InvalidJSONError
	if errors.As(err, &invalid) {
		return newStructuredErrorWithContext(ErrInvalidResponse, invalid.Error(), map[string]any{
			"method":      invalid.Method,
			"status_code": invalid.StatusCode,
		})
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return newStructuredErrorWithContext(ErrDecode, decodeErr.Error(), map[string]any{"method": decodeErr.Method})
	}

	var encodeErr *EncodeError
	if errors.As(err, &encodeErr) {
		return newStructuredErrorWithContext(ErrEncode, encodeErr.Error(), map[string]any{"method": encodeErr.Method})
	}

	var formErr *FormError
	if errors.As(err, &formErr) {
		ctx := map[string]any{"method": formErr.Method}
		if formErr.Field != "" {
			ctx["field"] = formErr.Field
		}
		return newStructuredErrorWithContext(ErrForm, formErr.Error(), ctx)
	}

	return NewStructuredError(ErrUnknown, err.Error())
}
