// Package local implements the adapter contract against the machine rollout
// runs on. Commands go through a shell in the host root and file transfers are
// plain filesystem operations.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/rollout/internal/adapter"
	"github.com/alexisbeaulieu97/rollout/internal/process"
)

// Name is the identifier hosts use to select this adapter.
const Name = "local"

// Adapter runs commands and transfers files on the local machine.
type Adapter struct {
	host      string
	root      string
	shell     string
	env       map[string]string
	connected bool
}

var _ adapter.Adapter = (*Adapter)(nil)

// New builds a local adapter. Recognised options: "shell" overrides the shell
// used for ExecuteCommand; every "env.NAME" entry is exported to commands.
func New(params adapter.Params) (adapter.Adapter, error) {
	env := make(map[string]string)
	for key, value := range params.Options {
		if name, ok := strings.CutPrefix(key, "env."); ok && name != "" {
			env[name] = value
		}
	}
	return &Adapter{
		host:  params.Host,
		root:  params.Root,
		shell: params.Options["shell"],
		env:   env,
	}, nil
}

// Register adds the local adapter to reg.
func Register(reg *adapter.Registry) error {
	return reg.Register(Name, New)
}

func (a *Adapter) Type() adapter.Type { return adapter.TypeLocal }

func (a *Adapter) Method() adapter.Method { return adapter.MethodCLI }

// Connect makes sure the host root exists and is a directory.
func (a *Adapter) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return adapter.NewConnectionError(a.host, err)
	}
	if a.root == "" {
		a.connected = true
		return nil
	}
	if err := os.MkdirAll(a.root, 0o755); err != nil {
		return adapter.NewConnectionError(a.host, err)
	}
	info, err := os.Stat(a.root)
	if err != nil {
		return adapter.NewConnectionError(a.host, err)
	}
	if !info.IsDir() {
		return adapter.NewConnectionError(a.host, fmt.Errorf("root %s is not a directory", a.root))
	}
	a.connected = true
	return nil
}

// ExecuteCommand runs command through a shell with the host root as working
// directory.
func (a *Adapter) ExecuteCommand(ctx context.Context, command string) (process.ProcessExecutionResult, error) {
	if !a.connected {
		return process.ProcessExecutionResult{Command: command}, adapter.NewConnectionError(a.host, fmt.Errorf("not connected"))
	}
	return process.Run(ctx, process.Command{
		Line:  command,
		Dir:   a.root,
		Env:   a.env,
		Shell: a.shell,
	})
}

// Interactive opens a pty session in the host root for expect-style
// automation. The caller owns the session and must Close it.
func (a *Adapter) Interactive(argv []string, timeout time.Duration) (*process.Interactive, error) {
	if !a.connected {
		return nil, adapter.NewConnectionError(a.host, fmt.Errorf("not connected"))
	}
	p, err := process.NewInteractive(process.Options{
		Command: argv,
		Dir:     a.root,
		Env:     a.env,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	if err := p.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

// PutFile copies localPath to remotePath, preserving its mode.
func (a *Adapter) PutFile(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst := a.resolve(remotePath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode().Perm())
}

// PutContents writes data to remotePath, creating parent directories.
func (a *Adapter) PutContents(ctx context.Context, remotePath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := a.resolve(remotePath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// GetContents reads remotePath.
func (a *Adapter) GetContents(ctx context.Context, remotePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(a.resolve(remotePath))
}

// Close releases nothing; the local adapter holds no connection.
func (a *Adapter) Close() error {
	a.connected = false
	return nil
}

func (a *Adapter) resolve(path string) string {
	if filepath.IsAbs(path) || a.root == "" {
		return path
	}
	return filepath.Join(a.root, path)
}
