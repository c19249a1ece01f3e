package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/botwire/botwire/internal/api"
)

const (
	exitOK              = 0
	exitGeneric         = 1
	exitUsage           = 2
	exitAuth            = 3
	exitNotFound        = 4
	exitForbidden       = 5
	exitRateLimited     = 6
	exitServer          = 7
	exitNetwork         = 8
	exitInvalidResponse = 9
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if code := exitCodeFromErrorCode(api.CodeFromError(err)); code != 0 {
		return code
	}
	if isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func exitCodeFromErrorCode(code api.ErrorCode) int {
	switch code {
	case api.ErrUnauthorized:
		return exitAuth
	case api.ErrForbidden:
		return exitForbidden
	case api.ErrNotFound:
		return exitNotFound
	case api.ErrRateLimited:
		return exitRateLimited
	case api.ErrServerError:
		return exitServer
	case api.ErrNetwork, api.ErrTimeout:
		return exitNetwork
	case api.ErrInvalidResponse, api.ErrDecode:
		return exitInvalidResponse
	case api.ErrBadRequest, api.ErrConflict, api.ErrEncode, api.ErrForm:
		return exitUsage
	default:
		return 0
	}
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"accepts ",
		"requires at least",
		"requires exactly",
		"invalid argument",
		"invalid value",
		"must be",
		"is required",
		"cannot be",
		"exceeds maximum",
		"an album needs",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
