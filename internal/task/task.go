// Package task holds the bus subscribers that carry out the deployment
// phases on a host through its adapter.
package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/rollout/internal/adapter"
	"github.com/alexisbeaulieu97/rollout/internal/event"
	"github.com/alexisbeaulieu97/rollout/internal/logger"
	"github.com/alexisbeaulieu97/rollout/internal/process"
)

const (
	// VersionFile is written into every release directory.
	VersionFile = "VERSION"
	// InstalledMarker is written into a release directory once every install
	// command succeeded.
	InstalledMarker = ".installed"
)

// Settings configures the core tasks.
type Settings struct {
	// InstallCommands run in order inside the release directory.
	InstallCommands []string
	// DeployCommands run in order inside the current link once it points at
	// the new release.
	DeployCommands []string
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
}

// Register subscribes the core tasks to bus in pipeline order.
func Register(bus *event.Bus, settings Settings, log *logger.Logger) []event.Subscription {
	r := runner{settings: settings, log: log, now: time.Now}
	return []event.Subscription{
		bus.Subscribe(event.PrepareWorkspaceName, r.prepareWorkspace),
		bus.Subscribe(event.PrepareReleaseName, r.prepareRelease),
		bus.Subscribe(event.InstallReleaseName, r.installRelease),
		bus.Subscribe(event.DeployReleaseName, r.deployRelease),
	}
}

type runner struct {
	settings Settings
	log      *logger.Logger
	now      func() time.Time
}

// execute runs command on a host and turns a non-zero exit or an expired
// timeout into the matching process error.
func (r runner) execute(ctx context.Context, a adapter.Adapter, taskName, command string) (process.ProcessExecutionResult, error) {
	if r.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.settings.Timeout)
		defer cancel()
	}

	result, err := a.ExecuteCommand(ctx, command)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, process.NewCommandTimeoutError(taskName, command, r.settings.Timeout, result.PrimaryOutput())
		}
		return result, fmt.Errorf("%s: %w", taskName, err)
	}
	if !result.Successful() {
		return result, process.NewCommandExecutionError(taskName, result)
	}
	return result, nil
}

func (r runner) logFor(ctx context.Context, host, task string) *logger.Logger {
	return r.log.WithContext(ctx).ForHost(host).WithFields(map[string]any{"task": task})
}

// inDir prefixes command with a change of directory.
func inDir(dir, command string) string {
	return "cd " + quote(dir) + " && " + command
}

// quote wraps s in single quotes for a POSIX shell.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
