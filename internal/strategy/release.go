package strategy

import (
	"context"

	"github.com/alexisbeaulieu97/rollout/internal/event"
	"github.com/alexisbeaulieu97/rollout/pkg/version"
)

// ReleaseName is the tag of the release strategy.
const ReleaseName = "release"

// ReleaseStrategy installs like InstallStrategy and, on deploy, promotes the
// release on every host of a stage. Whether a host gets a full reinstall or an
// in-place update depends on how far the new version is from the one it runs.
// An update is only attempted for a release that is already installed.
type ReleaseStrategy struct {
	Base
	ReinstallOn version.MatchKind
}

// NewReleaseStrategy validates reinstallOn and wraps base. An empty rule
// defaults to minor_difference.
func NewReleaseStrategy(base Base, reinstallOn string) (*ReleaseStrategy, error) {
	if err := base.validate(); err != nil {
		return nil, err
	}
	if reinstallOn == "" {
		reinstallOn = string(version.MinorDifference)
	}
	kind, err := version.ParseMatchKind(reinstallOn)
	if err != nil {
		return nil, err
	}
	return &ReleaseStrategy{Base: base, ReinstallOn: kind}, nil
}

func (s *ReleaseStrategy) Name() string { return ReleaseName }

// Deploy promotes version on every host of stage.
func (s *ReleaseStrategy) Deploy(ctx context.Context, v, stage string) (*Outcome, error) {
	out, hosts, err := s.begin(ctx, "deploy", v, stage, true)
	if err != nil {
		return nil, err
	}

	for _, host := range hosts {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		ws, err := s.prepareWorkspace(ctx, host, v)
		if err != nil {
			return out, err
		}
		if ws == nil {
			out.Failed = append(out.Failed, host.Name)
			continue
		}

		rel, err := s.prepareRelease(ctx, ws, v)
		if err != nil {
			return out, err
		}
		if rel == nil {
			out.Failed = append(out.Failed, host.Name)
			continue
		}

		reinstall, err := version.MatchesStrategy(s.ReinstallOn, v, ws.CurrentVersion)
		if err != nil {
			return out, err
		}
		if !reinstall && !rel.Installed() {
			// Updating in place needs a release that was installed beforehand.
			s.Logger.WithContext(ctx).ForHost(host.Name).WithFields(map[string]any{"version": v}).
				Warn("release was never installed, reinstalling instead of updating")
			reinstall = true
		}

		mode := event.ModeUpdate
		if reinstall {
			mode = event.ModeReinstall
			ok, err := s.installRelease(ctx, rel)
			if err != nil {
				return out, err
			}
			if !ok {
				out.Failed = append(out.Failed, host.Name)
				continue
			}
			out.Installed = append(out.Installed, host.Name)
		}

		s.Logger.WithContext(ctx).ForHost(host.Name).WithFields(map[string]any{
			"from":   ws.CurrentVersion,
			"to":     v,
			"change": version.Difference(v, ws.CurrentVersion).String(),
			"mode":   string(mode),
		}).Info("promoting release")

		ok, err := s.deployRelease(ctx, rel, mode)
		if err != nil {
			return out, err
		}
		if !ok {
			out.Failed = append(out.Failed, host.Name)
			continue
		}
		out.Deployed = append(out.Deployed, host.Name)
	}

	if _, err := s.Bus.Dispatch(ctx, event.DeployCommandComplete, out.complete()); err != nil {
		return out, err
	}
	return out, nil
}
