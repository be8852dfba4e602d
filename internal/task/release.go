package task

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/alexisbeaulieu97/rollout/internal/deploy"
	"github.com/alexisbeaulieu97/rollout/internal/event"
)

func (r runner) prepareRelease(ctx context.Context, ev event.Event) error {
	req, ok := ev.(*event.PrepareRelease)
	if !ok || req.Workspace == nil {
		return nil
	}
	ws := req.Workspace
	a := ws.Host.Adapter
	dir := ws.ReleaseDir(req.Version)

	if _, err := r.execute(ctx, a, "release", "mkdir -p "+quote(dir)); err != nil {
		return err
	}
	if err := a.PutContents(ctx, path.Join(dir, VersionFile), []byte(req.Version+"\n")); err != nil {
		r.logFor(ctx, ws.Host.Name, "release").Error(err, "write version file")
		return nil
	}

	state := deploy.ReleasePrepared
	if _, err := a.GetContents(ctx, path.Join(dir, InstalledMarker)); err == nil {
		state = deploy.ReleaseInstalled
	}

	req.Release = &deploy.Release{
		Version:   req.Version,
		Path:      dir,
		State:     state,
		Workspace: ws,
	}
	return nil
}

func (r runner) installRelease(ctx context.Context, ev event.Event) error {
	req, ok := ev.(*event.InstallRelease)
	if !ok || req.Release == nil {
		return nil
	}
	rel := req.Release
	a := rel.Host().Adapter
	log := r.logFor(ctx, rel.Host().Name, "install").WithFields(map[string]any{"version": rel.Version})
	marker := path.Join(rel.Path, InstalledMarker)

	if _, err := r.execute(ctx, a, "install", "rm -f "+quote(marker)); err != nil {
		return err
	}
	rel.State = deploy.ReleasePrepared

	for _, command := range r.settings.InstallCommands {
		result, err := r.execute(ctx, a, "install", inDir(rel.Path, command))
		if err != nil {
			return err
		}
		log.WithFields(map[string]any{"command": command, "duration": result.Duration.String()}).Info("install command finished")
	}
	if err := a.PutContents(ctx, marker, []byte(r.now().UTC().Format(time.RFC3339)+"\n")); err != nil {
		return fmt.Errorf("install: mark %s installed: %w", rel.Path, err)
	}
	rel.State = deploy.ReleaseInstalled
	return nil
}
