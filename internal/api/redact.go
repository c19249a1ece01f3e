package api

import (
	"errors"
	"net/url"
	"strings"
)

const redactedToken = "<token>"

// RedactToken replaces every occurrence of token in s.
func RedactToken(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, redactedToken)
}

// redactedError hides the token in the message while keeping the chain
// available to errors.Is and errors.As.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redact strips the token from errors produced by net/http, whose *url.Error
// embeds the full request URL.
func redact(err error, token string) error {
	if err == nil || token == "" {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && err == error(urlErr) {
		err = &url.Error{
			Op:  urlErr.Op,
			URL: RedactToken(urlErr.URL, token),
			Err: urlErr.Err,
		}
	}
	if msg := err.Error(); strings.Contains(msg, token) {
		return &redactedError{msg: RedactToken(msg, token), err: err}
	}
	return err
}
