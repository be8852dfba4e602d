// Package strategy sequences the deployment phases across hosts. Strategies do
// no work on hosts themselves: every phase is an event dispatched on the bus
// and fulfilled by task subscribers.
package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/rollout/internal/adapter"
	"github.com/alexisbeaulieu97/rollout/internal/deploy"
	"github.com/alexisbeaulieu97/rollout/internal/event"
	"github.com/alexisbeaulieu97/rollout/internal/logger"
	"github.com/alexisbeaulieu97/rollout/internal/process"
	rollouterrors "github.com/alexisbeaulieu97/rollout/pkg/errors"
)

// Strategy runs install and deploy commands for a version.
type Strategy interface {
	Name() string
	Install(ctx context.Context, version, stage string) (*Outcome, error)
	Deploy(ctx context.Context, version, stage string) (*Outcome, error)
}

// Inventory is the configured host set. It is read-only for a run.
type Inventory interface {
	Hosts() []deploy.Host
	HostsByStage(stage deploy.Stage) []deploy.Host
}

// Outcome lists the hosts that reached each end state during one command.
type Outcome struct {
	Command   string
	Version   string
	Stage     deploy.Stage
	Installed []string
	Deployed  []string
	Failed    []string
}

// Succeeded reports whether no host failed.
func (o *Outcome) Succeeded() bool {
	return o != nil && len(o.Failed) == 0
}

func (o *Outcome) complete() *event.CommandComplete {
	return &event.CommandComplete{
		Command:   o.Command,
		Version:   o.Version,
		Stage:     o.Stage,
		Installed: len(o.Installed),
		Deployed:  len(o.Deployed),
		Failed:    len(o.Failed),
	}
}

// Base carries the collaborators every strategy needs and implements the
// phase sequence shared by all of them. Hosts are visited one after another;
// a failed host never stops the loop.
type Base struct {
	Bus       *event.Bus
	Inventory Inventory
	Logger    *logger.Logger
}

func (b Base) validate() error {
	if b.Bus == nil {
		return fmt.Errorf("strategy: event bus is required")
	}
	if b.Inventory == nil {
		return fmt.Errorf("strategy: inventory is required")
	}
	return nil
}

// Install prepares a workspace and a release on each selected host and
// installs the release there. An empty stage selects every host.
func (b Base) Install(ctx context.Context, version, stage string) (*Outcome, error) {
	out, hosts, err := b.begin(ctx, "install", version, stage, false)
	if err != nil {
		return nil, err
	}

	for _, host := range hosts {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		ws, err := b.prepareWorkspace(ctx, host, version)
		if err != nil {
			return out, err
		}
		if ws == nil {
			out.Failed = append(out.Failed, host.Name)
			continue
		}

		rel, err := b.prepareRelease(ctx, ws, version)
		if err != nil {
			return out, err
		}
		if rel == nil {
			out.Failed = append(out.Failed, host.Name)
			continue
		}

		ok, err := b.installRelease(ctx, rel)
		if err != nil {
			return out, err
		}
		if !ok {
			out.Failed = append(out.Failed, host.Name)
			continue
		}
		out.Installed = append(out.Installed, host.Name)
	}

	if _, err := b.Bus.Dispatch(ctx, event.InstallCommandComplete, out.complete()); err != nil {
		return out, err
	}
	return out, nil
}

// Deploy is a no-op for strategies without a promotion step. The stage is
// still validated so a typo fails loudly.
func (b Base) Deploy(ctx context.Context, version, stage string) (*Outcome, error) {
	parsed, err := deploy.ParseStage(stage)
	if err != nil {
		return nil, err
	}
	return &Outcome{Command: "deploy", Version: version, Stage: parsed}, nil
}

// begin validates the arguments, resolves the host set and dispatches
// Initialize. Nothing is dispatched when validation fails.
func (b Base) begin(ctx context.Context, command, version, stage string, stageRequired bool) (*Outcome, []deploy.Host, error) {
	if err := b.validate(); err != nil {
		return nil, nil, err
	}
	if version == "" {
		return nil, nil, rollouterrors.NewValidationError("version", "version is required", nil)
	}

	var (
		parsed deploy.Stage
		hosts  []deploy.Host
	)
	if stage != "" || stageRequired {
		s, err := deploy.ParseStage(stage)
		if err != nil {
			return nil, nil, err
		}
		parsed = s
		hosts = b.Inventory.HostsByStage(parsed)
	} else {
		hosts = b.Inventory.Hosts()
	}

	b.Logger.WithContext(ctx).WithFields(map[string]any{
		"command": command,
		"version": version,
		"stage":   string(parsed),
		"hosts":   len(hosts),
	}).Info("starting " + command)

	out := &Outcome{Command: command, Version: version, Stage: parsed}
	if _, err := b.Bus.Dispatch(ctx, event.Initialize, &event.InitializeEvent{Command: command, Version: version, Stage: parsed}); err != nil {
		return nil, nil, err
	}
	return out, hosts, nil
}

func (b Base) prepareWorkspace(ctx context.Context, host deploy.Host, version string) (*deploy.Workspace, error) {
	ev, ok, err := b.dispatch(ctx, event.PrepareWorkspaceName, host, version, &event.PrepareWorkspace{Host: host})
	if err != nil || !ok {
		return nil, err
	}
	ws := ev.(*event.PrepareWorkspace).Workspace
	if ws == nil {
		return nil, b.fail(ctx, event.PrepareWorkspaceName, host, version, nil)
	}
	return ws, nil
}

func (b Base) prepareRelease(ctx context.Context, ws *deploy.Workspace, version string) (*deploy.Release, error) {
	ev, ok, err := b.dispatch(ctx, event.PrepareReleaseName, ws.Host, version, &event.PrepareRelease{Workspace: ws, Version: version})
	if err != nil || !ok {
		return nil, err
	}
	rel := ev.(*event.PrepareRelease).Release
	if rel == nil {
		return nil, b.fail(ctx, event.PrepareReleaseName, ws.Host, version, nil)
	}
	return rel, nil
}

func (b Base) installRelease(ctx context.Context, rel *deploy.Release) (bool, error) {
	_, ok, err := b.dispatch(ctx, event.InstallReleaseName, rel.Host(), rel.Version, &event.InstallRelease{Release: rel})
	return ok, err
}

func (b Base) deployRelease(ctx context.Context, rel *deploy.Release, mode event.DeployMode) (bool, error) {
	_, ok, err := b.dispatch(ctx, event.DeployReleaseName, rel.Host(), rel.Version, &event.DeployRelease{Release: rel, Mode: mode})
	return ok, err
}

// dispatch runs one phase. A recoverable subscriber error becomes the phase's
// failure event when someone listens for it, and ok is false; any other error
// aborts the command.
func (b Base) dispatch(ctx context.Context, phase string, host deploy.Host, version string, ev event.Event) (event.Event, bool, error) {
	b.Logger.WithContext(ctx).ForHost(host.Name).WithFields(map[string]any{"phase": phase}).Debug("dispatching phase")

	result, err := b.Bus.Dispatch(ctx, phase, ev)
	if err == nil {
		return result, true, nil
	}
	if recoverable(err) && b.Bus.HasSubscribers(event.FailureOf(phase)) {
		return nil, false, b.fail(ctx, phase, host, version, err)
	}
	return nil, false, fmt.Errorf("%s on %s: %w", phase, host.Name, err)
}

func (b Base) fail(ctx context.Context, phase string, host deploy.Host, version string, cause error) error {
	log := b.Logger.WithContext(ctx).ForHost(host.Name).WithFields(map[string]any{"phase": phase, "version": version})
	if cause != nil {
		log.Error(cause, "phase failed")
	} else {
		log.Warn("phase produced no result")
	}
	_, err := b.Bus.Dispatch(ctx, event.FailureOf(phase), &event.Failed{
		Phase:   phase,
		Host:    host,
		Version: version,
		Err:     cause,
	})
	return err
}

func recoverable(err error) bool {
	var connErr *adapter.ConnectionError
	return process.IsRecoverable(err) || errors.As(err, &connErr)
}
