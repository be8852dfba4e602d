package strategy

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/rollout/internal/deploy"
	"github.com/alexisbeaulieu97/rollout/internal/event"
	"github.com/alexisbeaulieu97/rollout/internal/process"
	rollouterrors "github.com/alexisbeaulieu97/rollout/pkg/errors"
)

type fakeInventory struct {
	hosts []deploy.Host
}

func (f fakeInventory) Hosts() []deploy.Host { return f.hosts }

func (f fakeInventory) HostsByStage(stage deploy.Stage) []deploy.Host {
	var out []deploy.Host
	for _, h := range f.hosts {
		if h.Stage == stage {
			out = append(out, h)
		}
	}
	return out
}

// recorder captures every lifecycle dispatch as "name(host)".
type recorder struct {
	calls []string
}

func (r *recorder) register(bus *event.Bus) {
	for _, name := range event.Lifecycle() {
		name := name
		bus.Subscribe(name, func(ctx context.Context, ev event.Event) error {
			r.calls = append(r.calls, describe(name, ev))
			return nil
		})
	}
}

func describe(name string, ev event.Event) string {
	switch e := ev.(type) {
	case *event.PrepareWorkspace:
		return fmt.Sprintf("%s(%s)", name, e.Host.Name)
	case *event.PrepareRelease:
		return fmt.Sprintf("%s(%s,%s)", name, e.Workspace.Host.Name, e.Version)
	case *event.InstallRelease:
		return fmt.Sprintf("%s(%s)", name, e.Release.Host().Name)
	case *event.DeployRelease:
		return fmt.Sprintf("%s(%s,%s)", name, e.Release.Host().Name, e.Mode)
	case *event.Failed:
		return fmt.Sprintf("%s(%s)", name, e.Host.Name)
	default:
		return name
	}
}

// tasks fulfils phases for the hosts listed in ok and returns nothing for the
// rest. Subscribers are registered before the recorder so results are set
// when the recorder sees the event.
type tasks struct {
	workspaceOK map[string]bool
	releaseOK   map[string]bool
	installed   map[string]bool
	current     map[string]string
	installErr  map[string]error
}

func (tk tasks) register(bus *event.Bus) {
	bus.Subscribe(event.PrepareWorkspaceName, func(ctx context.Context, ev event.Event) error {
		req := ev.(*event.PrepareWorkspace)
		if tk.workspaceOK[req.Host.Name] {
			req.Workspace = &deploy.Workspace{Host: req.Host, Root: "/srv/" + req.Host.Name, CurrentVersion: tk.current[req.Host.Name]}
		}
		return nil
	})
	bus.Subscribe(event.PrepareReleaseName, func(ctx context.Context, ev event.Event) error {
		req := ev.(*event.PrepareRelease)
		if tk.releaseOK[req.Workspace.Host.Name] {
			state := deploy.ReleasePrepared
			if tk.installed[req.Workspace.Host.Name] {
				state = deploy.ReleaseInstalled
			}
			req.Release = &deploy.Release{Version: req.Version, Path: req.Workspace.ReleaseDir(req.Version), State: state, Workspace: req.Workspace}
		}
		return nil
	})
	bus.Subscribe(event.InstallReleaseName, func(ctx context.Context, ev event.Event) error {
		return tk.installErr[ev.(*event.InstallRelease).Release.Host().Name]
	})
}

func productionHosts() fakeInventory {
	return fakeInventory{hosts: []deploy.Host{
		{Name: "web1", Stage: deploy.StageProduction},
		{Name: "web2", Stage: deploy.StageProduction},
		{Name: "web3", Stage: deploy.StageProduction},
		{Name: "stage1", Stage: deploy.StageStaging},
	}}
}

func all(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func TestInstallVisitsEveryHostAfterFirstSuccess(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	tasks{workspaceOK: all("web1"), releaseOK: all("web1")}.register(bus)
	rec := &recorder{}
	rec.register(bus)

	s, err := NewInstallStrategy(Base{Bus: bus, Inventory: productionHosts()})
	require.NoError(t, err)

	out, err := s.Install(context.Background(), "1.2.0", "production")
	require.NoError(t, err)

	require.Equal(t, []string{
		"initialize",
		"workspace.prepare(web1)",
		"release.prepare(web1,1.2.0)",
		"release.install(web1)",
		"workspace.prepare(web2)",
		"workspace.prepare.failed(web2)",
		"workspace.prepare(web3)",
		"workspace.prepare.failed(web3)",
		"install.command.complete",
	}, rec.calls)
	require.Equal(t, []string{"web1"}, out.Installed)
	require.Equal(t, []string{"web2", "web3"}, out.Failed)
	require.False(t, out.Succeeded())
	require.Equal(t, deploy.StageProduction, out.Stage)

	name, last := bus.LastDispatched()
	require.Equal(t, event.InstallCommandComplete, name)
	require.Equal(t, 1, last.(*event.CommandComplete).Installed)
	require.Equal(t, 2, last.(*event.CommandComplete).Failed)
}

func TestInstallWithoutStageSelectsAllHosts(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	inv := productionHosts()
	tasks{workspaceOK: all("web1", "web2", "web3", "stage1"), releaseOK: all("web1", "web2", "web3", "stage1")}.register(bus)

	s, err := NewInstallStrategy(Base{Bus: bus, Inventory: inv})
	require.NoError(t, err)

	out, err := s.Install(context.Background(), "1.0.0", "")
	require.NoError(t, err)
	require.Equal(t, []string{"web1", "web2", "web3", "stage1"}, out.Installed)
	require.True(t, out.Succeeded())
}

func TestInstallMissingReleaseFailsOnlyThatHost(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	tasks{workspaceOK: all("web1", "web2"), releaseOK: all("web2")}.register(bus)
	rec := &recorder{}
	rec.register(bus)

	s, err := NewInstallStrategy(Base{Bus: bus, Inventory: fakeInventory{hosts: productionHosts().hosts[:2]}})
	require.NoError(t, err)

	out, err := s.Install(context.Background(), "1.0.0", "production")
	require.NoError(t, err)
	require.Contains(t, rec.calls, "release.prepare.failed(web1)")
	require.NotContains(t, rec.calls, "release.install(web1)")
	require.Equal(t, []string{"web2"}, out.Installed)
	require.Equal(t, []string{"web1"}, out.Failed)
}

func TestInstallRejectsUnknownStageBeforeDispatch(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	rec := &recorder{}
	rec.register(bus)

	s, err := NewInstallStrategy(Base{Bus: bus, Inventory: productionHosts()})
	require.NoError(t, err)

	out, err := s.Install(context.Background(), "1.0.0", "prod")
	require.Nil(t, out)
	require.ErrorIs(t, err, rollouterrors.ErrInvalidArgument)

	var stageErr *rollouterrors.InvalidStageError
	require.ErrorAs(t, err, &stageErr)
	require.Empty(t, rec.calls)

	name, last := bus.LastDispatched()
	require.Empty(t, name)
	require.Nil(t, last)
}

func TestInstallRequiresVersion(t *testing.T) {
	t.Parallel()

	s, err := NewInstallStrategy(Base{Bus: event.NewBus(), Inventory: productionHosts()})
	require.NoError(t, err)

	_, err = s.Install(context.Background(), "", "")
	var validationErr *rollouterrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCommandErrorBecomesFailureWhenHandled(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	cmdErr := process.NewCommandExecutionError("install", process.ProcessExecutionResult{Command: "make", ExitCode: 2})
	tasks{
		workspaceOK: all("web1", "web2"),
		releaseOK:   all("web1", "web2"),
		installErr:  map[string]error{"web1": cmdErr},
	}.register(bus)

	var failed []*event.Failed
	bus.Subscribe(event.InstallReleaseFailedName, func(ctx context.Context, ev event.Event) error {
		failed = append(failed, ev.(*event.Failed))
		return nil
	})

	s, err := NewInstallStrategy(Base{Bus: bus, Inventory: fakeInventory{hosts: productionHosts().hosts[:2]}})
	require.NoError(t, err)

	out, err := s.Install(context.Background(), "1.0.0", "production")
	require.NoError(t, err)
	require.Equal(t, []string{"web2"}, out.Installed)
	require.Equal(t, []string{"web1"}, out.Failed)
	require.Len(t, failed, 1)
	require.Equal(t, "web1", failed[0].Host.Name)
	require.ErrorIs(t, failed[0].Err, cmdErr)
}

func TestCommandErrorIsFatalWithoutFailureHandler(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	cmdErr := process.NewCommandExecutionError("install", process.ProcessExecutionResult{Command: "make", ExitCode: 2})
	tasks{
		workspaceOK: all("web1", "web2"),
		releaseOK:   all("web1", "web2"),
		installErr:  map[string]error{"web1": cmdErr},
	}.register(bus)

	s, err := NewInstallStrategy(Base{Bus: bus, Inventory: fakeInventory{hosts: productionHosts().hosts[:2]}})
	require.NoError(t, err)

	out, err := s.Install(context.Background(), "1.0.0", "production")
	require.ErrorIs(t, err, cmdErr)
	require.Empty(t, out.Installed)
}

func TestUnrecoverableErrorAbortsEvenWithFailureHandler(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	boom := errors.New("disk full")
	tasks{
		workspaceOK: all("web1"),
		releaseOK:   all("web1"),
		installErr:  map[string]error{"web1": boom},
	}.register(bus)
	bus.Subscribe(event.InstallReleaseFailedName, func(ctx context.Context, ev event.Event) error { return nil })

	s, err := NewInstallStrategy(Base{Bus: bus, Inventory: productionHosts()})
	require.NoError(t, err)

	_, err = s.Install(context.Background(), "1.0.0", "production")
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "release.install on web1")
}

func TestInstallStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	bus.Subscribe(event.Initialize, func(context.Context, event.Event) error {
		cancel()
		return nil
	})

	s, err := NewInstallStrategy(Base{Bus: bus, Inventory: productionHosts()})
	require.NoError(t, err)

	_, err = s.Install(ctx, "1.0.0", "production")
	require.ErrorIs(t, err, context.Canceled)
}

func TestInstallStrategyDeployIsNoop(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	rec := &recorder{}
	rec.register(bus)

	s, err := NewInstallStrategy(Base{Bus: bus, Inventory: productionHosts()})
	require.NoError(t, err)

	out, err := s.Deploy(context.Background(), "1.0.0", "production")
	require.NoError(t, err)
	require.Empty(t, out.Deployed)
	require.Empty(t, rec.calls)

	_, err = s.Deploy(context.Background(), "1.0.0", "nowhere")
	require.ErrorIs(t, err, rollouterrors.ErrInvalidArgument)
}

func TestNewStrategyRequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := NewInstallStrategy(Base{Inventory: productionHosts()})
	require.Error(t, err)
	_, err = NewReleaseStrategy(Base{Bus: event.NewBus()}, "")
	require.Error(t, err)
}
