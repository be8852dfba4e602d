// Package adapter defines the transport boundary through which deployment
// tasks reach a host. Concrete transports live in sub-packages and register
// themselves with a Registry by name.
package adapter

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/rollout/internal/process"
)

// Type is the locality of the host an adapter talks to.
type Type string

const (
	TypeRemote Type = "remote"
	TypeLocal  Type = "local"
)

// Method is how an adapter moves work to the host.
type Method string

const (
	MethodCLI      Method = "cli"
	MethodTransfer Method = "transfer"
)

// Adapter connects to a single host. Implementations must translate network
// and authentication failures in Connect into a *ConnectionError and report
// non-zero exit statuses through the returned result rather than an error.
type Adapter interface {
	Type() Type
	Method() Method
	Connect(ctx context.Context) error
	ExecuteCommand(ctx context.Context, command string) (process.ProcessExecutionResult, error)
	PutFile(ctx context.Context, localPath, remotePath string) error
	PutContents(ctx context.Context, remotePath string, data []byte) error
	GetContents(ctx context.Context, remotePath string) ([]byte, error)
	Close() error
}

// ConnectionError reports a failure to reach or authenticate against a host.
type ConnectionError struct {
	Host string
	Err  error
}

// NewConnectionError constructs a ConnectionError.
func NewConnectionError(host string, err error) error {
	return &ConnectionError{Host: host, Err: err}
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("connect to %s: %v", e.Host, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
