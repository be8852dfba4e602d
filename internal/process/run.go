package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// waitDelay bounds how long Run keeps reading output after cancellation, for
// children that left the process group but still hold the pipes.
const waitDelay = 2 * time.Second

// Command describes a one-shot shell invocation.
type Command struct {
	Line  string
	Dir   string
	Env   map[string]string
	Shell string

	// Stdout and Stderr receive a live copy of the output when set.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes cmd through a shell and captures its output. A non-zero exit
// status is reported through the result, not the error; the error is reserved
// for failures to start or wait on the process.
func Run(ctx context.Context, cmd Command) (ProcessExecutionResult, error) {
	result := ProcessExecutionResult{Command: cmd.Line}

	shell, shellArgs, err := determineShell(cmd.Shell)
	if err != nil {
		return result, err
	}

	args := append(shellArgs, cmd.Line)
	c := exec.CommandContext(ctx, shell, args...)
	c.Env = buildEnv(cmd.Env)
	c.Dir = cmd.Dir
	killGroupOnCancel(c)
	c.WaitDelay = waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	c.Stdout = &stdoutBuf
	if cmd.Stdout != nil {
		c.Stdout = io.MultiWriter(cmd.Stdout, &stdoutBuf)
	}
	c.Stderr = &stderrBuf
	if cmd.Stderr != nil {
		c.Stderr = io.MultiWriter(cmd.Stderr, &stderrBuf)
	}

	start := time.Now()
	err = c.Run()
	result.Duration = time.Since(start)
	result.Stdout = strings.TrimSpace(stdoutBuf.String())
	result.Stderr = strings.TrimSpace(stderrBuf.String())

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, fmt.Errorf("run %q: %w", cmd.Line, err)
	}
	return result, nil
}

func determineShell(explicit string) (string, []string, error) {
	if explicit != "" {
		return explicit, []string{"-c"}, nil
	}

	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}, nil
	}

	if path, err := exec.LookPath("bash"); err == nil {
		return path, []string{"-c"}, nil
	}

	if path, err := exec.LookPath("sh"); err == nil {
		return path, []string{"-c"}, nil
	}

	return "", nil, fmt.Errorf("no suitable shell found")
}

func buildEnv(custom map[string]string) []string {
	env := os.Environ()
	for k, v := range custom {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}

func joinCommand(argv []string) string {
	return strings.Join(argv, " ")
}
