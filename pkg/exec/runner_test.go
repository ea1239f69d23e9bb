package exec_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/homelab-dev/homelab/pkg/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CapturesAndMirrorsStdout(t *testing.T) {
	t.Parallel()

	var mirror bytes.Buffer

	runner := exec.NewHostCommandRunner(&mirror, nil)

	result, err := runner.Run(context.Background(), "sh", "-c", "echo hello")

	require.NoError(t, err)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Equal(t, "hello\n", mirror.String())
}

func TestRun_CapturesStderrOnFailure(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer

	runner := exec.NewHostCommandRunner(&bytes.Buffer{}, &stderr)

	result, err := runner.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")

	require.Error(t, err)
	assert.Contains(t, result.Stderr, "oops")
	assert.Contains(t, err.Error(), "failed")
}

func TestRun_RespectsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := exec.NewHostCommandRunner(&bytes.Buffer{}, &bytes.Buffer{})

	_, err := runner.Run(ctx, "sleep", "5")

	require.Error(t, err)
}

func TestLookPath(t *testing.T) {
	t.Parallel()

	runner := exec.NewHostCommandRunner(nil, nil)

	path, err := runner.LookPath("sh")

	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = runner.LookPath("definitely-not-a-binary-xyz")

	require.Error(t, err)
}
