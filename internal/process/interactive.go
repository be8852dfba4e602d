package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sync"
	"time"

	"github.com/creack/pty"
)

// DefaultTimeout is the liveness window used when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures an interactive session.
type Options struct {
	Command  []string
	Dir      string
	Env      map[string]string
	Timeout  time.Duration
	Platform PlatformOptions
}

// PlatformOptions tunes the pseudo-terminal allocated for the child.
type PlatformOptions struct {
	// Rows and Cols set the initial window size; zero keeps the pty default.
	Rows uint16
	Cols uint16
	// Term is exported as TERM unless Env already defines it. Defaults to "dumb"
	// so that prompts are not decorated with escape sequences.
	Term string
	// CleanEnv starts the child with Env only instead of inheriting os.Environ.
	CleanEnv bool
}

// Interactive drives a long-lived child process attached to a pseudo-terminal
// through alternating Write and Read turns. The session is owned by a single
// caller and is not safe for concurrent use; Close may be called from any
// goroutine.
type Interactive struct {
	opts Options

	cmd     *exec.Cmd
	pty     *os.File
	chunks  chan []byte
	exited  chan struct{}
	pending [][]byte

	buf          expectBuffer
	lastOutput   time.Time
	outputClosed bool
	started      bool

	exitCode int
	waitErr  error

	closeOnce sync.Once
	closed    chan struct{}
}

// NewInteractive prepares a session without starting the child.
func NewInteractive(opts Options) (*Interactive, error) {
	if len(opts.Command) == 0 || opts.Command[0] == "" {
		return nil, fmt.Errorf("interactive process: command is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Platform.Term == "" {
		opts.Platform.Term = "dumb"
	}
	return &Interactive{
		opts:   opts,
		closed: make(chan struct{}),
	}, nil
}

// Start spawns the child on a fresh pseudo-terminal. It is called once; the
// session then stays alive across turns until the child exits or Close.
func (p *Interactive) Start() error {
	if p.isClosed() {
		return ErrClosed
	}
	if p.started {
		return nil
	}

	cmd := exec.Command(p.opts.Command[0], p.opts.Command[1:]...)
	cmd.Dir = p.opts.Dir
	cmd.Env = p.environment()

	var (
		ptmx *os.File
		err  error
	)
	if p.opts.Platform.Rows > 0 || p.opts.Platform.Cols > 0 {
		ptmx, err = pty.StartWithSize(cmd, &pty.Winsize{Rows: p.opts.Platform.Rows, Cols: p.opts.Platform.Cols})
	} else {
		ptmx, err = pty.Start(cmd)
	}
	if err != nil {
		return fmt.Errorf("start %s: %w", p.opts.Command[0], err)
	}

	p.cmd = cmd
	p.pty = ptmx
	p.chunks = make(chan []byte, 64)
	p.exited = make(chan struct{})
	p.started = true
	p.lastOutput = time.Now()

	go p.pump()
	go p.wait()

	for _, data := range p.pending {
		if _, err := p.pty.Write(data); err != nil {
			return fmt.Errorf("write pending input: %w", err)
		}
	}
	p.pending = nil
	return nil
}

// Write sends command to the child's input. Before Start the input is queued;
// afterwards one non-blocking drain pulls in whatever output is already
// available so that the next Read sees it without another round trip.
func (p *Interactive) Write(command string) error {
	if p.isClosed() {
		return ErrClosed
	}
	if !p.started {
		p.pending = append(p.pending, []byte(command))
		return nil
	}
	if _, err := p.pty.Write([]byte(command)); err != nil {
		return fmt.Errorf("write to %s: %w", p.opts.Command[0], err)
	}
	p.drain()
	return nil
}

// Read blocks until the output matches pattern and returns the buffered output
// up to and including the match.
func (p *Interactive) Read(ctx context.Context, pattern string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("compile expect pattern: %w", err)
	}
	return p.Expect(ctx, re)
}

// Expect is Read with a precompiled pattern. The wait ends with a
// *TimeoutError after Options.Timeout of silence, with ctx's error on
// cancellation, or with a *CommandExecutionError when the child exits first.
// Any unmatched output stays buffered for the next call.
func (p *Interactive) Expect(ctx context.Context, re *regexp.Regexp) (string, error) {
	if p.isClosed() {
		return "", ErrClosed
	}
	if !p.started {
		return "", ErrNotStarted
	}

	p.lastOutput = time.Now()
	timer := time.NewTimer(p.opts.Timeout)
	defer timer.Stop()

	for {
		p.drain()
		if out, ok := p.buf.consume(re); ok {
			return out, nil
		}
		if p.outputClosed {
			return "", p.exitError()
		}

		silence := time.Since(p.lastOutput)
		if silence >= p.opts.Timeout {
			return "", &TimeoutError{Timeout: p.opts.Timeout, Pattern: re.String(), Output: p.buf.String()}
		}
		timer.Reset(p.opts.Timeout - silence)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-p.closed:
			return "", ErrClosed
		case chunk, ok := <-p.chunks:
			if !ok {
				p.outputClosed = true
				continue
			}
			p.buf.write(chunk)
			p.lastOutput = time.Now()
		case <-timer.C:
		}
	}
}

// Buffered returns output received but not yet consumed by Read.
func (p *Interactive) Buffered() string {
	return p.buf.String()
}

// Wait blocks until the child exits and returns its exit status.
func (p *Interactive) Wait(ctx context.Context) (int, error) {
	if !p.started {
		return 0, ErrNotStarted
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-p.exited:
		return p.exitCode, p.waitErr
	}
}

// Resize changes the pty window size of a running session.
func (p *Interactive) Resize(rows, cols uint16) error {
	if !p.started {
		return ErrNotStarted
	}
	return pty.Setsize(p.pty, &pty.Winsize{Rows: rows, Cols: cols})
}

// Close kills the child if it is still running and releases the pty.
func (p *Interactive) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.closed)
		if !p.started {
			return
		}
		select {
		case <-p.exited:
		default:
			if p.cmd.Process != nil {
				_ = p.cmd.Process.Kill()
			}
		}
		err = p.pty.Close()
	})
	return err
}

func (p *Interactive) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

// drain moves every chunk that is already available into the buffer without
// blocking.
func (p *Interactive) drain() {
	if p.outputClosed {
		return
	}
	for {
		select {
		case chunk, ok := <-p.chunks:
			if !ok {
				p.outputClosed = true
				return
			}
			p.buf.write(chunk)
			p.lastOutput = time.Now()
		default:
			return
		}
	}
}

// pump owns the blocking pty reads. It ends when the pty reports EOF or EIO,
// which on Linux happens once the child and its descendants release the tty.
func (p *Interactive) pump() {
	defer close(p.chunks)
	scratch := make([]byte, 4096)
	for {
		n, err := p.pty.Read(scratch)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, scratch[:n])
			select {
			case p.chunks <- chunk:
			case <-p.closed:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (p *Interactive) wait() {
	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		p.exitCode = 0
	case errors.As(err, &exitErr):
		p.exitCode = exitErr.ExitCode()
	default:
		p.exitCode = -1
		p.waitErr = err
	}
	close(p.exited)
}

func (p *Interactive) exitError() error {
	select {
	case <-p.exited:
	case <-time.After(p.opts.Timeout):
		return &TimeoutError{Timeout: p.opts.Timeout, Output: p.buf.String(), Command: joinCommand(p.opts.Command)}
	}
	return NewCommandExecutionError("", ProcessExecutionResult{
		Command:  joinCommand(p.opts.Command),
		ExitCode: p.exitCode,
		Stdout:   p.buf.String(),
	})
}

func (p *Interactive) environment() []string {
	var env []string
	if !p.opts.Platform.CleanEnv {
		env = os.Environ()
	}
	if _, ok := p.opts.Env["TERM"]; !ok {
		env = append(env, "TERM="+p.opts.Platform.Term)
	}
	for k, v := range p.opts.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
