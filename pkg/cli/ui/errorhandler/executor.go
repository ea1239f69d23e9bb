// Package errorhandler runs the root command while capturing cobra's error
// stream, so failures surface as a single clean message instead of raw
// stderr noise.
package errorhandler

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"
)

// Executor runs a cobra command and converts failures into CommandError
// values carrying a normalized message.
type Executor struct{}

// NewExecutor constructs an Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs the command with stderr intercepted. On failure it returns a
// *CommandError whose message is the normalized stderr output and whose
// cause is the original error, preserving errors.Is/errors.As chains.
func (e *Executor) Execute(cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	var stderr bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&stderr)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.Execute()
	if err == nil {
		return nil
	}

	return &CommandError{
		message: normalizeStderr(stderr.String()),
		cause:   err,
	}
}

// CommandError is a command execution failure with normalized stderr output.
type CommandError struct {
	message string
	cause   error
}

// Error renders the normalized message, appending the cause when the message
// does not already contain it.
func (e *CommandError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return e.message
	case e.message == "":
		return e.cause.Error()
	case strings.Contains(e.message, e.cause.Error()):
		return e.message
	default:
		return e.message + ": " + e.cause.Error()
	}
}

// Unwrap exposes the underlying cause.
func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// normalizeStderr trims whitespace and strips cobra's "Error: " prefix from
// the first line while keeping multi-line usage hints intact.
func normalizeStderr(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	lines[0] = strings.TrimPrefix(strings.TrimSpace(lines[0]), "Error: ")

	return strings.Join(lines, "\n")
}
