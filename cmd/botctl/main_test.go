package main

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubExecute(t *testing.T, exec func(context.Context, []string) error, mapCode func(error) int) {
	t.Helper()
	origExec, origMap, origTerminate := executeCmd, mapExitCode, terminate
	t.Cleanup(func() {
		executeCmd, mapExitCode, terminate = origExec, origMap, origTerminate
	})
	executeCmd = exec
	mapExitCode = mapCode
}

func TestRun_Success(t *testing.T) {
	var gotArgs []string
	stubExecute(t,
		func(ctx context.Context, args []string) error {
			require.NotNil(t, ctx)
			gotArgs = append([]string(nil), args...)
			return nil
		},
		func(error) int {
			t.Fatal("mapExitCode should not be called on success")
			return 99
		})

	assert.Equal(t, 0, run([]string{"version", "--output", "json"}))
	assert.Equal(t, []string{"version", "--output", "json"}, gotArgs)
}

func TestRun_ErrorUsesMappedExitCode(t *testing.T) {
	executeErr := errors.New("boom")
	var mapped error
	stubExecute(t,
		func(context.Context, []string) error { return executeErr },
		func(err error) int {
			mapped = err
			return 23
		})

	assert.Equal(t, 23, run([]string{"me"}))
	assert.ErrorIs(t, mapped, executeErr)
}

func TestMain_UsesTerminateWithRunCode(t *testing.T) {
	var gotArgs []string
	stubExecute(t,
		func(_ context.Context, args []string) error {
			gotArgs = append([]string(nil), args...)
			return errors.New("boom")
		},
		func(error) int { return 13 })

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"botctl", "me", "--output", "json"}

	gotCode := -1
	terminate = func(code int) { gotCode = code }

	main()

	assert.Equal(t, 13, gotCode)
	assert.Equal(t, []string{"me", "--output", "json"}, gotArgs)
}
