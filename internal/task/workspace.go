package task

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/rollout/internal/adapter"
	"github.com/alexisbeaulieu97/rollout/internal/deploy"
	"github.com/alexisbeaulieu97/rollout/internal/event"
)

// prepareWorkspace connects to the host and makes sure its releases
// directory exists. An unreachable host leaves the workspace unset, which the
// strategy reports as a failed phase.
func (r runner) prepareWorkspace(ctx context.Context, ev event.Event) error {
	req, ok := ev.(*event.PrepareWorkspace)
	if !ok {
		return nil
	}
	host := req.Host
	log := r.logFor(ctx, host.Name, "workspace")

	if host.Adapter == nil {
		log.Warn("host has no adapter bound")
		return nil
	}
	if err := host.Adapter.Connect(ctx); err != nil {
		var connErr *adapter.ConnectionError
		if errors.As(err, &connErr) {
			log.Error(err, "host unreachable")
			return nil
		}
		return err
	}

	ws := &deploy.Workspace{
		ID:        uuid.NewString(),
		Host:      host,
		Root:      host.Root,
		CreatedAt: r.now(),
	}
	if _, err := r.execute(ctx, host.Adapter, "workspace", "mkdir -p "+quote(ws.ReleasesDir())); err != nil {
		return err
	}

	current, err := host.Adapter.GetContents(ctx, path.Join(ws.CurrentLink(), VersionFile))
	if err == nil {
		ws.CurrentVersion = strings.TrimSpace(string(current))
	}

	log.WithFields(map[string]any{"workspace": ws.ID, "current": ws.CurrentVersion}).Debug("workspace ready")
	req.Workspace = ws
	return nil
}
