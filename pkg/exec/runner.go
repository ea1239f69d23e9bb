// Package exec runs external binaries (kubeadm, modprobe, sysctl) while
// capturing their output for error reporting.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"
)

// CommandResult captures the stdout and stderr collected during a command
// execution. Both fields contain the complete output, including anything
// produced before a failure.
type CommandResult struct {
	Stdout string
	Stderr string
}

// CommandRunner executes external commands while capturing their output.
// Implementations stream output to the configured writers in real time while
// also retaining it for programmatic access via CommandResult.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
	LookPath(name string) (string, error)
}

// HostCommandRunner executes commands on the local host.
type HostCommandRunner struct {
	stdout io.Writer
	stderr io.Writer
}

var _ CommandRunner = (*HostCommandRunner)(nil)

// NewHostCommandRunner creates a runner that mirrors command output to the
// provided writers. Nil writers default to os.Stdout and os.Stderr.
func NewHostCommandRunner(stdout, stderr io.Writer) *HostCommandRunner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &HostCommandRunner{stdout: stdout, stderr: stderr}
}

// Run executes the command with the provided context. Output is displayed in
// real time and captured for the result. On failure the returned error wraps
// the exec error; callers format the captured stderr into their own message.
func (r *HostCommandRunner) Run(
	ctx context.Context,
	name string,
	args ...string,
) (CommandResult, error) {
	var outBuf, errBuf bytes.Buffer

	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.MultiWriter(&outBuf, r.stdout)
	cmd.Stderr = io.MultiWriter(&errBuf, r.stderr)

	runErr := cmd.Run()

	result := CommandResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if runErr != nil {
		return result, fmt.Errorf(
			"command %q failed: %w", name+" "+strings.Join(args, " "), runErr,
		)
	}

	return result, nil
}

// LookPath reports the full path of the named binary, or an error when it is
// not on PATH. Used by preflight checks.
func (r *HostCommandRunner) LookPath(name string) (string, error) {
	path, err := osexec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("binary %q not found on PATH: %w", name, err)
	}

	return path, nil
}
