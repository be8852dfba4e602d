package task

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/rollout/internal/deploy"
	"github.com/alexisbeaulieu97/rollout/internal/event"
)

// deployRelease points the current link at the release and runs the deploy
// commands from there.
func (r runner) deployRelease(ctx context.Context, ev event.Event) error {
	req, ok := ev.(*event.DeployRelease)
	if !ok || req.Release == nil {
		return nil
	}
	rel := req.Release
	ws := rel.Workspace
	a := rel.Host().Adapter
	log := r.logFor(ctx, rel.Host().Name, "deploy").WithFields(map[string]any{"version": rel.Version, "mode": string(req.Mode)})

	if !rel.Installed() {
		return fmt.Errorf("deploy: release %s on %s is not installed", rel.Version, rel.Host().Name)
	}

	if _, err := r.execute(ctx, a, "deploy", "ln -sfn "+quote(rel.Path)+" "+quote(ws.CurrentLink())); err != nil {
		return err
	}
	for _, command := range r.settings.DeployCommands {
		if _, err := r.execute(ctx, a, "deploy", inDir(ws.CurrentLink(), command)); err != nil {
			return err
		}
	}

	rel.State = deploy.ReleaseDeployed
	ws.CurrentVersion = rel.Version
	log.Info("release is live")
	return nil
}
