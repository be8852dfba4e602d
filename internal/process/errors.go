package process

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotStarted is returned when reading from a session that was never started.
	ErrNotStarted = errors.New("interactive process not started")
	// ErrClosed is returned when using a session after Close.
	ErrClosed = errors.New("interactive process closed")
)

// CommandExecutionError reports a command that exited unsuccessfully. Task
// names the unit of work that ran it so failures can be attributed.
type CommandExecutionError struct {
	Task   string
	Result ProcessExecutionResult
}

// NewCommandExecutionError constructs a CommandExecutionError.
func NewCommandExecutionError(task string, result ProcessExecutionResult) error {
	return &CommandExecutionError{Task: task, Result: result}
}

func (e *CommandExecutionError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Task != "" {
		fmt.Fprintf(&b, "task %s: ", e.Task)
	}
	fmt.Fprintf(&b, "command %q exited with status %d", e.Result.Command, e.Result.ExitCode)
	if out := strings.TrimSpace(e.Result.PrimaryOutput()); out != "" {
		fmt.Fprintf(&b, ": %s", out)
	}
	return b.String()
}

// TimeoutError is returned when an interactive session stays silent for longer
// than its liveness timeout without producing the expected output, or when a
// one-shot command outlives its deadline. Command is set only in the second
// case.
type TimeoutError struct {
	Timeout time.Duration
	Pattern string
	Output  string

	Task    string
	Command string
}

// NewCommandTimeoutError reports command, run for task, still running when
// its timeout expired.
func NewCommandTimeoutError(task, command string, timeout time.Duration, output string) error {
	return &TimeoutError{Timeout: timeout, Output: output, Task: task, Command: command}
}

func (e *TimeoutError) Error() string {
	if e == nil {
		return ""
	}
	if e.Command == "" {
		return fmt.Sprintf("no output matching %q within %s of silence", e.Pattern, e.Timeout)
	}
	var b strings.Builder
	if e.Task != "" {
		fmt.Fprintf(&b, "task %s: ", e.Task)
	}
	fmt.Fprintf(&b, "command %q did not finish within %s", e.Command, e.Timeout)
	return b.String()
}

// IsRecoverable reports whether err is a failure a task subscriber may hand
// back to the orchestration loop instead of aborting the run.
func IsRecoverable(err error) bool {
	var cmdErr *CommandExecutionError
	var timeoutErr *TimeoutError
	return errors.As(err, &cmdErr) || errors.As(err, &timeoutErr)
}
