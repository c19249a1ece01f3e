package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// NetworkError is a transport failure: connection, DNS, TLS, timeout, body
// read or cancellation of the call's context.
//
// Unless the failure happened while dialing, the request may already have
// reached the platform: the remote effect of the call is unknown.
type NetworkError struct {
	Method string
	Err    error

	notSent bool
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Method, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a timeout.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Canceled reports whether the call's context was canceled.
func (e *NetworkError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// RemoteEffectUnknown reports whether the platform may have acted on the
// request. Only failures while establishing the connection are known to
// have had no effect.
func (e *NetworkError) RemoteEffectUnknown() bool {
	if e.notSent {
		return false
	}
	var opErr *net.OpError
	if errors.As(e.Err, &opErr) && opErr.Op == "dial" {
		return false
	}
	var dnsErr *net.DNSError
	return !errors.As(e.Err, &dnsErr)
}

// APIError is a well-formed envelope with "ok": false.
type APIError struct {
	Method      string
	Code        int
	Description string
	Kind        APIErrorKind
	// RetryAfter is set when the platform asks the caller to wait (flood control).
	RetryAfter time.Duration
	// MigrateToChatID is set when a group was upgraded to a supergroup.
	MigrateToChatID int64
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: api error %d: %s", e.Method, e.Code, e.Description)
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.MigrateToChatID != 0 {
		msg += fmt.Sprintf(" (migrated to chat %d)", e.MigrateToChatID)
	}
	return msg
}

// InvalidJSONError means the response body is not a valid envelope.
type InvalidJSONError struct {
	Method     string
	StatusCode int
	Snippet    string
	Err        error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("%s: invalid response envelope (status %d): %v: %s", e.Method, e.StatusCode, e.Err, e.Snippet)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// DecodeError means the platform reported success but its result does not fit
// the operation's output type. This points at client/server version skew, not
// at a rejected call.
type DecodeError struct {
	Method  string
	Snippet string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: result does not match the expected type: %v: %s", e.Method, e.Err, e.Snippet)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError means the payload could not be serialized to JSON.
type EncodeError struct {
	Method string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s: failed to encode payload: %v", e.Method, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// FormError means the multipart body could not be built, typically because an
// upload could not be read. No request was sent.
type FormError struct {
	Method string
	Field  string
	Err    error
}

func (e *FormError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: failed to build multipart form: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("%s: failed to build multipart field %q: %v", e.Method, e.Field, e.Err)
}

func (e *FormError) Unwrap() error {
	return e.Err
}

// IsNetworkError checks if the error is a transport failure.
func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

// IsAPIError checks if the platform rejected the call.
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsInvalidJSON checks if the response was not a valid envelope.
func IsInvalidJSON(err error) bool {
	var e *InvalidJSONError
	return errors.As(err, &e)
}

// IsDecodeError checks if a successful result could not be decoded.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

// IsEncodeError checks if the payload could not be serialized.
func IsEncodeError(err error) bool {
	var e *EncodeError
	return errors.As(err, &e)
}

// IsFormError checks if the multipart body could not be built.
func IsFormError(err error) bool {
	var e *FormError
	return errors.As(err, &e)
}

// RetryAfter returns the wait requested by the platform, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var e *APIError
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter, true
	}
	return 0, false
}
