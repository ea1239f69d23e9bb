package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSafely_PassesThroughExitCode(t *testing.T) {
	t.Parallel()

	var errOutput bytes.Buffer

	exitCode := runSafely([]string{"anything"}, func(args []string) int {
		require.Equal(t, []string{"anything"}, args)

		return 3
	}, &errOutput)

	assert.Equal(t, 3, exitCode)
	assert.Empty(t, errOutput.String())
}

func TestRunSafely_RecoversPanic(t *testing.T) {
	t.Parallel()

	var errOutput bytes.Buffer

	exitCode := runSafely(nil, func([]string) int {
		panic("boom")
	}, &errOutput)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, errOutput.String(), "panic recovered: boom")
}
