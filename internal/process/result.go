package process

import (
	"strings"
	"time"
)

// ProcessExecutionResult captures the outcome of a command run through an
// adapter or an interactive session.
type ProcessExecutionResult struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Successful reports whether the command exited with status zero.
func (r ProcessExecutionResult) Successful() bool {
	return r.ExitCode == 0
}

// PrimaryOutput returns stderr if present, otherwise stdout.
func (r ProcessExecutionResult) PrimaryOutput() string {
	if strings.TrimSpace(r.Stderr) != "" {
		return r.Stderr
	}
	return r.Stdout
}
