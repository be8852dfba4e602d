package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/rollout/internal/deploy"
)

func TestDispatchSubstitutesEmptyEvent(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var received Event
	bus.Subscribe(Initialize, func(ctx context.Context, ev Event) error {
		received = ev
		return nil
	})

	ev, err := bus.Dispatch(context.Background(), Initialize, nil)
	require.NoError(t, err)
	require.NotNil(t, received)
	require.IsType(t, &Empty{}, ev)

	name, last := bus.LastDispatched()
	require.Equal(t, Initialize, name)
	require.Same(t, ev, last)
}

func TestLastDispatchedEmptyBeforeDispatch(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	name, last := bus.LastDispatched()
	require.Empty(t, name)
	require.Nil(t, last)

	_, err := bus.Dispatch(context.Background(), Log, &LogEntry{Level: LevelInfo, Message: "boot"})
	require.NoError(t, err)

	name, last = bus.LastDispatched()
	require.Empty(t, name)
	require.Nil(t, last)
}

func TestLogNeverShadowsLastDispatched(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var logs int
	bus.Subscribe(Log, func(ctx context.Context, ev Event) error {
		logs++
		return nil
	})

	ws := &PrepareWorkspace{Host: deploy.Host{Name: "web1"}}
	_, err := bus.Dispatch(context.Background(), PrepareWorkspaceName, ws)
	require.NoError(t, err)

	_, err = bus.Dispatch(context.Background(), Log, &LogEntry{Level: LevelWarning, Message: "slow"})
	require.NoError(t, err)
	_, err = bus.Dispatch(context.Background(), Log, nil)
	require.NoError(t, err)

	name, last := bus.LastDispatched()
	require.Equal(t, PrepareWorkspaceName, name)
	require.Same(t, ws, last)
	require.Equal(t, 2, logs)
}

func TestDispatchRunsSubscribersInRegistrationOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe(PrepareReleaseName, func(ctx context.Context, ev Event) error {
			order = append(order, i)
			return nil
		})
	}

	_, err := bus.Dispatch(context.Background(), PrepareReleaseName, &PrepareRelease{})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestSubscriberFillsResultSlot(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	bus.Subscribe(PrepareWorkspaceName, func(ctx context.Context, ev Event) error {
		req := ev.(*PrepareWorkspace)
		req.Workspace = &deploy.Workspace{Host: req.Host, Root: "/srv/app"}
		return nil
	})

	ev, err := bus.Dispatch(context.Background(), PrepareWorkspaceName, &PrepareWorkspace{Host: deploy.Host{Name: "web1"}})
	require.NoError(t, err)
	require.Equal(t, "/srv/app", ev.(*PrepareWorkspace).Workspace.Root)
}

func TestDispatchStopsAtFirstError(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	boom := errors.New("boom")
	var secondCalled bool
	bus.Subscribe(InstallReleaseName, func(ctx context.Context, ev Event) error { return boom })
	bus.Subscribe(InstallReleaseName, func(ctx context.Context, ev Event) error {
		secondCalled = true
		return nil
	})

	_, err := bus.Dispatch(context.Background(), Initialize, nil)
	require.NoError(t, err)

	_, err = bus.Dispatch(context.Background(), InstallReleaseName, &InstallRelease{})
	require.ErrorIs(t, err, boom)
	require.False(t, secondCalled)

	name, _ := bus.LastDispatched()
	require.Equal(t, Initialize, name)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var calls int
	sub := bus.Subscribe(Initialize, func(ctx context.Context, ev Event) error {
		calls++
		return nil
	})
	require.True(t, bus.HasSubscribers(Initialize))

	sub.Unsubscribe()
	require.False(t, bus.HasSubscribers(Initialize))

	_, err := bus.Dispatch(context.Background(), Initialize, nil)
	require.NoError(t, err)
	require.Zero(t, calls)

	bus.Subscribe(Initialize, nil).Unsubscribe()
	require.False(t, bus.HasSubscribers(Initialize))
}

func TestCatalogue(t *testing.T) {
	t.Parallel()

	require.NotContains(t, Lifecycle(), Log)
	for _, name := range FailureNames() {
		require.True(t, IsFailure(name))
		require.Contains(t, Lifecycle(), name)
	}
	require.False(t, IsFailure(PrepareWorkspaceName))
	require.Equal(t, InstallReleaseFailedName, FailureOf(InstallReleaseName))
	require.Empty(t, FailureOf(Initialize))
	require.True(t, LevelWarning.Degrading())
	require.False(t, LevelNotice.Degrading())
}
