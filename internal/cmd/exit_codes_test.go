package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/botwire/botwire/internal/api"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"help", pflag.ErrHelp, exitOK},
		{"unauthorized", &api.APIError{Code: 401}, exitAuth},
		{"forbidden", &api.APIError{Code: 403}, exitForbidden},
		{"not found", &api.APIError{Code: 404}, exitNotFound},
		{"bad request", &api.APIError{Code: 400}, exitUsage},
		{"conflict", &api.APIError{Code: 409}, exitUsage},
		{"rate limited", fmt.Errorf("wrapped: %w", &api.APIError{Code: 429}), exitRateLimited},
		{"server", &api.APIError{Code: 502}, exitServer},
		{"network", &api.NetworkError{Method: "getMe", Err: errors.New("refused")}, exitNetwork},
		{"timeout", &api.NetworkError{Method: "getMe", Err: context.DeadlineExceeded}, exitNetwork},
		{"invalid json", &api.InvalidJSONError{Method: "getMe", StatusCode: 502}, exitInvalidResponse},
		{"decode", &api.DecodeError{Method: "getMe", Err: errors.New("x")}, exitInvalidResponse},
		{"form", &api.FormError{Method: "sendPhoto", Err: errors.New("x")}, exitUsage},
		{"usage message", errors.New("--limit must be between 1 and 100"), exitUsage},
		{"unknown command", errors.New(`unknown command "x" for "botctl"`), exitUsage},
		{"generic", errors.New("boom"), exitGeneric},
		{"handled with code", &handledError{err: errors.New("x"), exitCode: exitServer}, exitServer},
		{"handled without code", &handledError{err: &api.APIError{Code: 401}}, exitAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestHandledErrorUnwrap(t *testing.T) {
	inner := &api.APIError{Code: 403}
	err := &handledError{err: inner, exitCode: exitForbidden}

	assert.ErrorIs(t, err, errAlreadyHandled)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, exitForbidden, err.ExitCode())
}
