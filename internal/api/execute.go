package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/botwire/botwire/internal/debug"
)

const contentTypeJSON = "application/json"

// ExecuteJSON sends p as a JSON body and decodes the result into O.
//
// Exactly one HTTP request is made and nothing is retried. Errors are one of
// *EncodeError, *NetworkError, *InvalidJSONError, *APIError or *DecodeError.
// If ctx is canceled while the request is in flight, the returned
// *NetworkError cannot tell whether the platform performed the action.
func ExecuteJSON[O any](ctx context.Context, b Bot, p JSONPayload[O]) (O, error) {
	var zero O
	method := p.MethodName()

	body, err := json.Marshal(p)
	if err != nil {
		return zero, &EncodeError{Method: method, Err: err}
	}
	return send[O](ctx, b, method, body, contentTypeJSON)
}

// ExecuteMultipart sends p as multipart/form-data and decodes the result into O.
//
// Uploads are read before anything is sent; a failure to read them is a
// *FormError. Otherwise the same outcomes as ExecuteJSON apply.
func ExecuteMultipart[O any](ctx context.Context, b Bot, p MultipartPayload[O]) (O, error) {
	var zero O
	method := p.MethodName()

	body, contentType, err := buildForm(ctx, method, p)
	if err != nil {
		return zero, err
	}
	return send[O](ctx, b, method, body, contentType)
}

func send[O any](ctx context.Context, b Bot, method string, body []byte, contentType string) (O, error) {
	status, respBody, err := b.post(ctx, method, body, contentType)
	if err != nil {
		var zero O
		return zero, err
	}
	out, err := decodeResponse[O](method, status, respBody)
	if err != nil && debug.IsEnabled(ctx) {
		slog.Debug("request rejected", "method", method, "status", status, "error", err)
	}
	return out, err
}

// post performs one POST to the method URL and returns the raw response.
func (b Bot) post(ctx context.Context, method string, body []byte, contentType string) (int, []byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.MethodURL(method).String(), bytes.NewReader(body))
	if err != nil {
		return 0, nil, &NetworkError{Method: method, Err: fmt.Errorf("failed to create request: %w", redact(err, b.token)), notSent: true}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Connection", "keep-alive")
	userAgent := b.userAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := b.httpClient().Do(req)
	if err != nil {
		err = redact(err, b.token)
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", method, "duration", time.Since(start), "error", err)
		}
		return 0, nil, &NetworkError{Method: method, Err: err}
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return 0, nil, &NetworkError{Method: method, Err: fmt.Errorf("failed to read response: %w", redact(err, b.token))}
	}

	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", method, "status", resp.StatusCode, "bytes", len(respBody), "duration", time.Since(start))
	}
	return resp.StatusCode, respBody, nil
}
